package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/repomanager"
)

// IdentityService resolves user handles to ids.
type IdentityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager) *IdentityService {
	return &IdentityService{db: db, repomanager: m}
}

func (s *IdentityService) UserID(ctx context.Context, handle string) (int64, error) {
	id, err := s.repomanager.Users(s.db).GetIDByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.NewNotFound("no data was found for the provided user: %s.", handle)
		}
		return 0, err
	}
	return id, nil
}

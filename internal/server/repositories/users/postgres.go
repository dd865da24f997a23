// Package users resolves user handles owned by the user service.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetIDByHandle returns the id of the user with handle. Handles are matched
// case-insensitively.
func (r *PostgresRepository) GetIDByHandle(ctx context.Context, handle string) (int64, error) {
	query :=
		`SELECT user_id FROM users
		 WHERE lower(handle) = lower($1)
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, handle).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

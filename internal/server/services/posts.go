package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/server/auth"
	"github.com/dmitrijs2005/postsets/internal/server/cache"
	"github.com/dmitrijs2005/postsets/internal/server/models"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/repomanager"
)

// PostService reads posts owned by the post service and applies their
// visibility rules.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	refs        *cache.References
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, refs *cache.References) *PostService {
	return &PostService{db: db, repomanager: m, refs: refs}
}

// Get returns the post if caller may see it. Missing and hidden posts are
// both reported as not found.
func (s *PostService) Get(ctx context.Context, caller auth.Caller, id models.PostID) (*models.Post, error) {
	rec, err := s.repomanager.Posts(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, postNotFound(id)
		}
		return nil, err
	}

	post, err := s.Resolve(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !canReadPost(caller, post) {
		return nil, postNotFound(id)
	}
	return post, nil
}

// Resolve turns the reference codes of rec into labels.
func (s *PostService) Resolve(ctx context.Context, rec *models.PostRecord) (*models.Post, error) {
	rating, err := s.refs.Rating(ctx, rec.RatingID)
	if err != nil {
		return nil, err
	}
	privacy, err := s.refs.Privacy(ctx, rec.PrivacyID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Rating:      rating,
		Parent:      rec.Parent,
		Created:     rec.Created,
		Updated:     rec.Updated,
		Filename:    rec.Filename,
		Uploader:    rec.Uploader,
		Privacy:     privacy,
	}

	if rec.MediaTypeID != nil {
		mt, err := s.refs.MediaType(ctx, *rec.MediaTypeID)
		if err != nil {
			return nil, err
		}
		post.MediaType = &mt
	}

	// A size is only known when both dimensions are.
	if rec.Width != nil && rec.Height != nil && *rec.Width > 0 && *rec.Height > 0 {
		post.Size = &models.PostSize{Width: *rec.Width, Height: *rec.Height}
	}
	return post, nil
}

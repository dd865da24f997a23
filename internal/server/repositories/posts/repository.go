package posts

import (
	"context"

	"github.com/dmitrijs2005/postsets/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, id models.PostID) (*models.PostRecord, error)
}

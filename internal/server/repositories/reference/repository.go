package reference

import (
	"context"

	"github.com/dmitrijs2005/postsets/internal/server/models"
)

// Repository looks up the static code tables shared with the post service.
type Repository interface {
	Privacy(ctx context.Context, id int) (models.Privacy, error)
	Rating(ctx context.Context, id int) (models.Rating, error)
	MediaType(ctx context.Context, id int) (models.MediaType, error)
}

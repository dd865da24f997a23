package setposts

import (
	"context"

	"github.com/dmitrijs2005/postsets/internal/server/models"
)

// Repository manages the (set, post, index) entries of sets. Callers must
// hold the set's mutation lock while shifting indices, so that the indices of
// a set stay dense between transactions.
type Repository interface {
	Count(ctx context.Context, setID models.SetID) (int, error)
	IndexOf(ctx context.Context, setID models.SetID, postID models.PostID) (int, bool, error)
	ShiftUp(ctx context.Context, setID models.SetID, from int) error
	ShiftDown(ctx context.Context, setID models.SetID, after int) error
	Insert(ctx context.Context, entry models.SetEntry) error
	Delete(ctx context.Context, setID models.SetID, postID models.PostID) (int, bool, error)
	Window(ctx context.Context, setID models.SetID, index, radius int) ([]models.IndexedPostRecord, error)
}

package sets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/postsets/internal/server/models"
)

// Field names a sets column an update may assign.
type Field string

const (
	FieldOwner       Field = "owner"
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldPrivacy     Field = "privacy"
)

// Assignment sets one column. Privacy values are privacy labels.
type Assignment struct {
	Field Field
	Value any
}

// Membership is a set containing a post, with the post's index in it.
type Membership struct {
	Set   *models.SetRecord
	Index int
}

type Repository interface {
	Exists(ctx context.Context, id models.SetID) (bool, error)
	Create(ctx context.Context, set *models.Set) error
	Get(ctx context.Context, id models.SetID) (*models.SetRecord, error)
	Update(ctx context.Context, id models.SetID, changes []Assignment) (time.Time, int64, error)
	Delete(ctx context.Context, id models.SetID) error
	LockForMutation(ctx context.Context, id models.SetID) (int64, error)
	ListByOwner(ctx context.Context, owner int64) ([]*models.SetRecord, error)
	ListByPost(ctx context.Context, postID models.PostID) ([]Membership, error)
}

// Package posts reads post rows owned by the post service.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/server/models"
)

// Columns lists the post columns understood by Scan, qualified by the
// posts table name.
const Columns = `
		posts.post_id,
		posts.title,
		posts.description,
		posts.rating,
		posts.parent,
		posts.created_on,
		posts.updated_on,
		posts.filename,
		posts.media_type_id,
		posts.width,
		posts.height,
		posts.uploader,
		posts.privacy_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id models.PostID) (*models.PostRecord, error) {
	query := `SELECT ` + Columns + ` FROM posts WHERE posts.post_id = $1`

	post, err := Scan(r.db.QueryRowContext(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Scan reads Columns, followed by any extra destinations, from row.
func Scan(row Scanner, extra ...any) (*models.PostRecord, error) {
	var (
		p      models.PostRecord
		id     int64
		parent sql.NullInt64
	)

	dest := []any{
		&id, &p.Title, &p.Description, &p.RatingID, &parent,
		&p.Created, &p.Updated, &p.Filename, &p.MediaTypeID,
		&p.Width, &p.Height, &p.Uploader, &p.PrivacyID,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	p.ID = models.PostID(id)
	if parent.Valid {
		v := models.PostID(parent.Int64)
		p.Parent = &v
	}
	return &p, nil
}

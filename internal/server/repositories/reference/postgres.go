// Package reference reads the privacy, rating and media type code tables.
package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Privacy(ctx context.Context, id int) (models.Privacy, error) {
	var label string
	err := r.db.QueryRowContext(ctx, `SELECT type FROM privacy WHERE privacy_id = $1`, id).Scan(&label)
	if err != nil {
		return "", wrap(err, "privacy", id)
	}
	return models.Privacy(label), nil
}

func (r *PostgresRepository) Rating(ctx context.Context, id int) (models.Rating, error) {
	var label string
	err := r.db.QueryRowContext(ctx, `SELECT rating FROM ratings WHERE rating_id = $1`, id).Scan(&label)
	if err != nil {
		return "", wrap(err, "rating", id)
	}
	return models.Rating(label), nil
}

func (r *PostgresRepository) MediaType(ctx context.Context, id int) (models.MediaType, error) {
	var mt models.MediaType
	err := r.db.QueryRowContext(ctx,
		`SELECT file_type, mime_type FROM media_type WHERE media_type_id = $1`, id,
	).Scan(&mt.FileType, &mt.MimeType)
	if err != nil {
		return models.MediaType{}, wrap(err, "media type", id)
	}
	return mt, nil
}

func wrap(err error, table string, id int) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", table, id, common.ErrorNotFound)
	}
	return fmt.Errorf("db error: %w", err)
}

// Package setposts stores set membership entries and keeps their indices
// contiguous.
package setposts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/server/models"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/posts"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Count(ctx context.Context, setID models.SetID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(1) FROM set_post WHERE set_id = $1`, int64(setID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// IndexOf returns the index of postID in setID, or false if it is not a member.
func (r *PostgresRepository) IndexOf(ctx context.Context, setID models.SetID, postID models.PostID) (int, bool, error) {
	var idx int
	err := r.db.QueryRowContext(ctx,
		`SELECT index FROM set_post WHERE set_id = $1 AND post_id = $2`,
		int64(setID), int64(postID),
	).Scan(&idx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("db error: %w", err)
	}
	return idx, true, nil
}

// ShiftUp moves every entry at index >= from one position up.
func (r *PostgresRepository) ShiftUp(ctx context.Context, setID models.SetID, from int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE set_post SET index = index + 1 WHERE set_id = $1 AND index >= $2`,
		int64(setID), from)
	if err != nil {
		return fmt.Errorf("shift entries: %w", err)
	}
	return nil
}

// ShiftDown moves every entry at index > after one position down.
func (r *PostgresRepository) ShiftDown(ctx context.Context, setID models.SetID, after int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE set_post SET index = index - 1 WHERE set_id = $1 AND index > $2`,
		int64(setID), after)
	if err != nil {
		return fmt.Errorf("shift entries: %w", err)
	}
	return nil
}

// Insert stores entry. A duplicate (set, post) pair yields common.ErrorConflict.
func (r *PostgresRepository) Insert(ctx context.Context, entry models.SetEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO set_post (set_id, post_id, index) VALUES ($1, $2, $3)`,
		int64(entry.SetID), int64(entry.PostID), entry.Index)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes postID from setID and returns the index it held.
func (r *PostgresRepository) Delete(ctx context.Context, setID models.SetID, postID models.PostID) (int, bool, error) {
	var idx int
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM set_post WHERE set_id = $1 AND post_id = $2 RETURNING index`,
		int64(setID), int64(postID),
	).Scan(&idx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("db error: %w", err)
	}
	return idx, true, nil
}

// Window returns the posts within radius of index, excluding index itself,
// ordered by index.
func (r *PostgresRepository) Window(ctx context.Context, setID models.SetID, index, radius int) ([]models.IndexedPostRecord, error) {
	query := `SELECT ` + posts.Columns + `,
		set_post.index
	FROM set_post
		INNER JOIN posts
			ON posts.post_id = set_post.post_id
	WHERE set_post.set_id = $1
		AND set_post.index BETWEEN $2 AND $3
		AND set_post.index <> $4
	ORDER BY set_post.index`

	rows, err := r.db.QueryContext(ctx, query, int64(setID), index-radius, index+radius, index)
	if err != nil {
		return nil, fmt.Errorf("failed to select neighbors: %w", err)
	}
	defer rows.Close()

	var result []models.IndexedPostRecord
	for rows.Next() {
		var ip models.IndexedPostRecord
		p, err := posts.Scan(rows, &ip.Index)
		if err != nil {
			return nil, err
		}
		ip.Post = *p
		result = append(result, ip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Package sets provides the PostgreSQL-backed repository for set rows and
// their denormalized membership summary.
package sets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/server/models"
)

// setColumns reads a set and its summary in one statement, so first, last and
// count come from the same snapshot.
const setColumns = `
		sets.set_id,
		sets.owner,
		sets.title,
		sets.description,
		sets.privacy,
		sets.created,
		sets.updated,
		sets.revision,
		(SELECT sp.post_id FROM set_post sp WHERE sp.set_id = sets.set_id ORDER BY sp.index ASC LIMIT 1),
		(SELECT sp.post_id FROM set_post sp WHERE sp.set_id = sets.set_id ORDER BY sp.index DESC LIMIT 1),
		(SELECT count(1) FROM set_post sp WHERE sp.set_id = sets.set_id)`

const privacyToID = `(SELECT privacy_id FROM privacy WHERE type = $%d)`

// PostgresRepository implements set storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Exists reports whether a set row with id is present.
func (r *PostgresRepository) Exists(ctx context.Context, id models.SetID) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(1) FROM sets WHERE set_id = $1`, int64(id)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// Create inserts set and fills in its server-assigned timestamps and revision.
// An unknown privacy label fails the NOT NULL constraint.
func (r *PostgresRepository) Create(ctx context.Context, set *models.Set) error {
	query := `
		INSERT INTO sets (set_id, owner, title, description, privacy)
		VALUES ($1, $2, $3, $4, ` + fmt.Sprintf(privacyToID, 5) + `)
		RETURNING created, updated, revision`

	err := r.db.QueryRowContext(ctx, query,
		int64(set.ID), set.Owner, set.Title, set.Description, string(set.Privacy),
	).Scan(&set.Created, &set.Updated, &set.Revision)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get loads a set with its first/last post and count.
func (r *PostgresRepository) Get(ctx context.Context, id models.SetID) (*models.SetRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+setColumns+` FROM sets WHERE sets.set_id = $1`, int64(id))

	rec, err := scanSet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Update applies changes, refreshes the updated timestamp and bumps the
// revision. It returns the new timestamp and revision.
func (r *PostgresRepository) Update(ctx context.Context, id models.SetID, changes []Assignment) (time.Time, int64, error) {
	clauses := make([]string, 0, len(changes)+2)
	args := make([]any, 0, len(changes)+1)

	for _, c := range changes {
		args = append(args, c.Value)
		switch c.Field {
		case FieldOwner, FieldTitle, FieldDescription:
			clauses = append(clauses, fmt.Sprintf("%s = $%d", c.Field, len(args)))
		case FieldPrivacy:
			clauses = append(clauses, fmt.Sprintf("privacy = "+privacyToID, len(args)))
		default:
			return time.Time{}, 0, fmt.Errorf("unknown set field %q", c.Field)
		}
	}
	clauses = append(clauses, "updated = now()", "revision = revision + 1")
	args = append(args, int64(id))

	query := fmt.Sprintf(`UPDATE sets SET %s WHERE set_id = $%d RETURNING updated, revision`,
		strings.Join(clauses, ", "), len(args))

	var updated time.Time
	var revision int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&updated, &revision); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, 0, common.ErrorNotFound
		}
		return time.Time{}, 0, fmt.Errorf("db error: %w", err)
	}
	return updated, revision, nil
}

// Delete removes the set's entries and then the set. Run it inside a
// transaction so both statements apply together.
func (r *PostgresRepository) Delete(ctx context.Context, id models.SetID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM set_post WHERE set_id = $1`, int64(id)); err != nil {
		return fmt.Errorf("delete set entries: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM sets WHERE set_id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// LockForMutation bumps the set's revision. The UPDATE holds the row lock
// until the surrounding transaction ends, which serializes membership
// changes of one set.
func (r *PostgresRepository) LockForMutation(ctx context.Context, id models.SetID) (int64, error) {
	var revision int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE sets SET revision = revision + 1 WHERE set_id = $1 RETURNING revision`, int64(id),
	).Scan(&revision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return revision, nil
}

// ListByOwner returns every set owned by owner, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, owner int64) ([]*models.SetRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM sets WHERE sets.owner = $1 ORDER BY sets.created, sets.set_id`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to select sets: %w", err)
	}
	defer rows.Close()

	var result []*models.SetRecord
	for rows.Next() {
		rec, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByPost returns every set containing postID with the post's index.
func (r *PostgresRepository) ListByPost(ctx context.Context, postID models.PostID) ([]Membership, error) {
	query := `SELECT ` + setColumns + `,
		membership.index
	FROM sets
		INNER JOIN set_post membership
			ON membership.set_id = sets.set_id
	WHERE membership.post_id = $1
	ORDER BY sets.created, sets.set_id`

	rows, err := r.db.QueryContext(ctx, query, int64(postID))
	if err != nil {
		return nil, fmt.Errorf("failed to select post sets: %w", err)
	}
	defer rows.Close()

	var result []Membership
	for rows.Next() {
		var m Membership
		rec, err := scanSet(rows, &m.Index)
		if err != nil {
			return nil, err
		}
		m.Set = rec
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSet(row scanner, extra ...any) (*models.SetRecord, error) {
	var (
		rec   models.SetRecord
		id    int64
		first sql.NullInt64
		last  sql.NullInt64
	)

	dest := []any{
		&id, &rec.Owner, &rec.Title, &rec.Description, &rec.PrivacyID,
		&rec.Created, &rec.Updated, &rec.Revision, &first, &last, &rec.Count,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	rec.ID = models.SetID(id)
	if first.Valid {
		p := models.PostID(first.Int64)
		rec.First = &p
	}
	if last.Valid {
		p := models.PostID(last.Int64)
		rec.Last = &p
	}
	return &rec, nil
}

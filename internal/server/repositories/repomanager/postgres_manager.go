// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/server/migrations"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/posts"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/reference"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/setposts"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/sets"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories bound to a
// DBTX, so the same code runs on the pool or inside a transaction.
type PostgresRepositoryManager struct{}

// Sets returns a sets.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Sets(db dbx.DBTX) sets.Repository {
	return sets.NewPostgresRepository(db)
}

// SetPosts returns a setposts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) SetPosts(db dbx.DBTX) setposts.Repository {
	return setposts.NewPostgresRepository(db)
}

// Posts returns a posts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Posts(db dbx.DBTX) posts.Repository {
	return posts.NewPostgresRepository(db)
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Reference returns a reference.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Reference(db dbx.DBTX) reference.Repository {
	return reference.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

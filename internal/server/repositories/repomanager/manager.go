package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/postsets/internal/dbx"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/posts"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/reference"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/setposts"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/sets"
	"github.com/dmitrijs2005/postsets/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Sets(db dbx.DBTX) sets.Repository
	SetPosts(db dbx.DBTX) setposts.Repository
	Posts(db dbx.DBTX) posts.Repository
	Users(db dbx.DBTX) users.Repository
	Reference(db dbx.DBTX) reference.Repository
}

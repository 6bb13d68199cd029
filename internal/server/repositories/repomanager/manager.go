package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/wishsync/internal/dbx"
	"github.com/dmitrijs2005/wishsync/internal/server/repositories/users"
	"github.com/dmitrijs2005/wishsync/internal/server/repositories/wishlist"
)

// RepositoryManager vends repositories bound to a database handle or a
// transaction, and migrates the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Wishlist(db dbx.DBTX) wishlist.Repository
}

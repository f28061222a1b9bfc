// Package collection manages per-collection storage schemas: the row table,
// its vector index twin, the sync triggers between them, and the registry
// that pins each collection's embedding dimensions.
package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ridgeline-cloud/chunkdex/internal/db"
	"github.com/ridgeline-cloud/chunkdex/internal/db/sqlite"
	"github.com/ridgeline-cloud/chunkdex/internal/domain"
)

// registryDDL pins collection dimensions across restarts. The CHECK keeps a
// zero or negative dimension from ever being registered.
const registryDDL = `CREATE TABLE IF NOT EXISTS ` + sqlite.RegistryTable + ` (
	name TEXT PRIMARY KEY,
	dimensions INTEGER NOT NULL CHECK (dimensions > 0)
)`

const (
	registrySelect = `SELECT dimensions FROM ` + sqlite.RegistryTable + ` WHERE name = ?`
	registryInsert = `INSERT INTO ` + sqlite.RegistryTable + ` (name, dimensions) VALUES (?, ?)`
	registryDelete = `DELETE FROM ` + sqlite.RegistryTable + ` WHERE name = ?`
)

// Repo implements usecase/collection.Repository over SQLite.
type Repo struct {
	conn *sql.DB
	log  *zap.Logger
}

// New creates a collection repository.
func New(conn *sql.DB, log *zap.Logger) *Repo {
	return &Repo{conn: conn, log: log}
}

// Ensure creates the storage schema for a collection if it does not exist:
// registry row, row table, vector index table, and the insert/delete sync
// triggers, all in one transaction. Calling it again with the same dimensions
// is a no-op; calling it with different dimensions fails without touching the
// schema.
func (r *Repo) Ensure(ctx context.Context, name string, dimensions int) error {
	if err := sqlite.ValidateCollectionName(name); err != nil {
		return err
	}
	if dimensions <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrDimensionMismatch, dimensions)
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpBegin, Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, registryDDL); err != nil {
		return &db.Error{Op: db.OpExec, Err: fmt.Errorf("create registry: %w", err)}
	}

	var existing int
	err = tx.QueryRowContext(ctx, registrySelect, name).Scan(&existing)
	switch {
	case err == nil:
		if existing != dimensions {
			return domain.NewDimensionError(dimensions, existing)
		}
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, registryInsert, name, dimensions); err != nil {
			return &db.Error{Op: db.OpExec, Err: fmt.Errorf("register collection %s: %w", name, err)}
		}
	default:
		return &db.Error{Op: db.OpQuery, Err: fmt.Errorf("lookup collection %s: %w", name, err)}
	}

	for _, ddl := range schemaDDL(name) {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return &db.Error{Op: db.OpExec, Err: fmt.Errorf("create schema for %s: %w", name, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpCommit, Err: err}
	}

	r.log.Info("collection schema ensured",
		zap.String("collection", name),
		zap.Int("dimensions", dimensions))
	return nil
}

// Get returns a collection by name, or domain.ErrCollectionNotFound.
func (r *Repo) Get(ctx context.Context, name string) (domain.Collection, error) {
	if err := sqlite.ValidateCollectionName(name); err != nil {
		return domain.Collection{}, err
	}
	var dims int
	err := r.conn.QueryRowContext(ctx, registrySelect, name).Scan(&dims)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Collection{}, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	if err != nil {
		return domain.Collection{}, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("lookup collection %s: %w", name, err)}
	}
	return domain.Collection{Name: name, Dimensions: dims}, nil
}

// Drop removes a collection's schema and registry entry in one transaction.
func (r *Repo) Drop(ctx context.Context, name string) error {
	if err := sqlite.ValidateCollectionName(name); err != nil {
		return err
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpBegin, Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, registryDelete, name)
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: fmt.Errorf("deregister collection %s: %w", name, err)}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}

	for _, ddl := range dropDDL(name) {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return &db.Error{Op: db.OpExec, Err: fmt.Errorf("drop schema for %s: %w", name, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpCommit, Err: err}
	}

	r.log.Info("collection dropped", zap.String("collection", name))
	return nil
}

// schemaDDL returns the per-collection DDL statements. Names pass through
// ValidateCollectionName before interpolation.
func schemaDDL(name string) []string {
	table := sqlite.TableName(name)
	vec := sqlite.VecTableName(name)
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
	rowid INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL CHECK (length(text) > 0),
	metadata TEXT,
	text_embedding BLOB NOT NULL
)`, table),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
	rowid INTEGER PRIMARY KEY,
	embedding BLOB NOT NULL
)`, vec),
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %q
	AFTER INSERT ON %q
	BEGIN
		INSERT INTO %q (rowid, embedding) VALUES (new.rowid, new.text_embedding);
	END`, sqlite.InsertTriggerName(name), table, vec),
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %q
	AFTER DELETE ON %q
	BEGIN
		DELETE FROM %q WHERE rowid = old.rowid;
	END`, sqlite.DeleteTriggerName(name), table, vec),
	}
}

func dropDDL(name string) []string {
	return []string{
		fmt.Sprintf(`DROP TRIGGER IF EXISTS %q`, sqlite.InsertTriggerName(name)),
		fmt.Sprintf(`DROP TRIGGER IF EXISTS %q`, sqlite.DeleteTriggerName(name)),
		fmt.Sprintf(`DROP TABLE IF EXISTS %q`, sqlite.VecTableName(name)),
		fmt.Sprintf(`DROP TABLE IF EXISTS %q`, sqlite.TableName(name)),
	}
}

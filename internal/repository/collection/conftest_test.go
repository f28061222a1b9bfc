package collection

import (
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ridgeline-cloud/chunkdex/internal/db/sqlite"
)

// openTestDB opens a throwaway database in a temp dir. A file-backed DB (not
// :memory:) because the pool opens multiple connections.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func newTestRepo(t *testing.T) (*Repo, *sql.DB) {
	t.Helper()
	conn := openTestDB(t)
	return New(conn, zap.NewNop()), conn
}

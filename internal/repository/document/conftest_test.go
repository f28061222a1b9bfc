package document

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ridgeline-cloud/chunkdex/internal/db/sqlite"
	collectionrepo "github.com/ridgeline-cloud/chunkdex/internal/repository/collection"
)

// newTestRepo opens a throwaway database and ensures a "docs" collection with
// the given dimensions.
func newTestRepo(t *testing.T, dims int) (*Repo, *sql.DB) {
	t.Helper()
	conn, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	colls := collectionrepo.New(conn, zap.NewNop())
	if err := colls.Ensure(context.Background(), "docs", dims); err != nil {
		t.Fatalf("ensure collection: %v", err)
	}
	return New(conn), conn
}

func record(text string, vec ...float32) Record {
	return Record{Text: text, Metadata: []byte("{}"), Embedding: vec}
}

package search

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ridgeline-cloud/chunkdex/internal/db/sqlite"
	collectionrepo "github.com/ridgeline-cloud/chunkdex/internal/repository/collection"
	documentrepo "github.com/ridgeline-cloud/chunkdex/internal/repository/document"
)

// fixture seeds a "docs" collection of 2-dimensional vectors.
type fixture struct {
	repo *Repo
	conn *sql.DB
	ids  []int64
}

func newFixture(t *testing.T, records []documentrepo.Record) *fixture {
	t.Helper()
	conn, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	colls := collectionrepo.New(conn, zap.NewNop())
	if err := colls.Ensure(ctx, "docs", 2); err != nil {
		t.Fatalf("ensure collection: %v", err)
	}

	var ids []int64
	if len(records) > 0 {
		ids, err = documentrepo.New(conn).InsertBatch(ctx, "docs", records)
		if err != nil {
			t.Fatalf("seed records: %v", err)
		}
	}

	return &fixture{repo: New(conn, zap.NewNop()), conn: conn, ids: ids}
}

func rec(text, meta string, vec ...float32) documentrepo.Record {
	return documentrepo.Record{Text: text, Metadata: []byte(meta), Embedding: vec}
}

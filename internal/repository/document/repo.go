// Package document persists embedded text chunks into a collection's row
// table. The insert trigger mirrors each row into the vector index table, so
// one INSERT per record keeps both sides in step.
package document

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ridgeline-cloud/chunkdex/internal/db"
	"github.com/ridgeline-cloud/chunkdex/internal/db/sqlite"
)

// Record is one embedded chunk ready for storage. Metadata is the encoded
// JSON blob; Embedding is the raw vector.
type Record struct {
	Text      string
	Metadata  []byte
	Embedding []float32
}

// Repo implements usecase/ingest.Repository over SQLite.
type Repo struct {
	conn *sql.DB
}

// New creates a document repository.
func New(conn *sql.DB) *Repo {
	return &Repo{conn: conn}
}

// InsertBatch writes all records in a single transaction and returns their
// assigned rowids in input order. Any failure rolls back the whole batch.
func (r *Repo) InsertBatch(ctx context.Context, collection string, records []Record) ([]int64, error) {
	if err := sqlite.ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, &db.Error{Op: db.OpBegin, Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %q (text, metadata, text_embedding) VALUES (?, ?, ?)`,
		sqlite.TableName(collection),
	))
	if err != nil {
		return nil, &db.Error{Op: db.OpExec, Err: fmt.Errorf("prepare insert %s: %w", collection, err)}
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(records))
	for i, rec := range records {
		res, err := stmt.ExecContext(ctx, rec.Text, rec.Metadata, sqlite.EncodeVector(rec.Embedding))
		if err != nil {
			return nil, &db.Error{Op: db.OpExec, Err: fmt.Errorf("insert record %d into %s: %w", i, collection, err)}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, &db.Error{Op: db.OpExec, Err: fmt.Errorf("rowid of record %d: %w", i, err)}
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, &db.Error{Op: db.OpCommit, Err: err}
	}
	return ids, nil
}

// Delete removes documents by rowid. The delete trigger clears the matching
// vector index entries.
func (r *Repo) Delete(ctx context.Context, collection string, ids []int64) error {
	if err := sqlite.ValidateCollectionName(collection); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpBegin, Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`DELETE FROM %q WHERE rowid = ?`, sqlite.TableName(collection),
	))
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: fmt.Errorf("prepare delete %s: %w", collection, err)}
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return &db.Error{Op: db.OpExec, Err: fmt.Errorf("delete rowid %d from %s: %w", id, collection, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpCommit, Err: err}
	}
	return nil
}

// Count returns the number of documents in a collection.
func (r *Repo) Count(ctx context.Context, collection string) (int, error) {
	if err := sqlite.ValidateCollectionName(collection); err != nil {
		return 0, err
	}
	var n int
	err := r.conn.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM %q`, sqlite.TableName(collection),
	)).Scan(&n)
	if err != nil {
		return 0, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("count %s: %w", collection, err)}
	}
	return n, nil
}

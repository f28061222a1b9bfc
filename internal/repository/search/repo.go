// Package search runs filtered nearest-neighbor queries against a
// collection's row and vector index tables.
package search

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ridgeline-cloud/chunkdex/internal/db"
	"github.com/ridgeline-cloud/chunkdex/internal/db/sqlite"
	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/metadata"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/search/filter"
)

// Repo implements usecase/search.Repository over SQLite.
type Repo struct {
	conn *sql.DB
	log  *zap.Logger
}

// New creates a search repository.
func New(conn *sql.DB, log *zap.Logger) *Repo {
	return &Repo{conn: conn, log: log}
}

// SearchKNN returns up to limit documents nearest to the query vector,
// ordered by ascending distance. The metadata predicate restricts candidates
// before ranking, so the result always holds the closest MATCHING rows.
// Rows whose stored metadata fails to decode are returned with an empty map
// rather than dropped.
func (r *Repo) SearchKNN(
	ctx context.Context,
	collection string,
	query []float32,
	limit int,
	expr *filter.Expression,
) ([]domain.Document, error) {
	if err := sqlite.ValidateCollectionName(collection); err != nil {
		return nil, err
	}

	predicate, predArgs, err := sqlite.CompilePredicate(expr)
	if err != nil {
		return nil, err
	}

	// Ties on distance break on rowid so repeated queries return a stable
	// ordering.
	stmt := fmt.Sprintf(
		`SELECT e.rowid, e.text, e.metadata, %s(v.embedding, ?) AS distance
		FROM %q e
		INNER JOIN %q v ON v.rowid = e.rowid
		WHERE %s
		ORDER BY distance ASC, e.rowid ASC
		LIMIT ?`,
		sqlite.DistanceFunc,
		sqlite.TableName(collection),
		sqlite.VecTableName(collection),
		predicate,
	)

	args := make([]any, 0, len(predArgs)+2)
	args = append(args, sqlite.EncodeVector(query))
	args = append(args, predArgs...)
	args = append(args, limit)

	rows, err := r.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("knn %s: %w", collection, err)}
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var (
			id       int64
			text     string
			metaBlob sql.NullString
			distance float64
		)
		if err := rows.Scan(&id, &text, &metaBlob, &distance); err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: fmt.Errorf("knn %s: %w", collection, err)}
		}
		docs = append(docs, domain.Document{
			ID:       id,
			Content:  text,
			Metadata: r.decodeMetadata(collection, id, metaBlob),
			Score:    distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("knn %s: %w", collection, err)}
	}
	return docs, nil
}

// decodeMetadata parses a stored metadata blob. Undecodable metadata degrades
// to an empty map so one corrupt row cannot fail a whole result set.
func (r *Repo) decodeMetadata(collection string, id int64, blob sql.NullString) metadata.Map {
	if !blob.Valid || blob.String == "" {
		return metadata.Map{}
	}
	m, err := metadata.Decode([]byte(blob.String))
	if err != nil {
		r.log.Warn("undecodable document metadata, returning empty map",
			zap.String("collection", collection),
			zap.Int64("rowid", id),
			zap.Error(err))
		return metadata.Map{}
	}
	return m
}

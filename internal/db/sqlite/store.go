// Package sqlite wraps the modernc.org/sqlite driver for use as the row store
// and vector index of a collection: connection setup, the scalar distance
// function the vector index queries rank by, the float32 vector codec, and
// the metadata predicate compiler.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"sync"
	"time"

	sqlite3 "modernc.org/sqlite"

	"github.com/ridgeline-cloud/chunkdex/internal/db"
)

// DistanceFunc is the SQL scalar function used to rank vector index entries.
// The name matches the sqlite-vec convention.
const DistanceFunc = "vec_distance_l2"

var (
	registerOnce sync.Once
	registerErr  error
)

// registerDistanceFunc installs the L2 distance function for all connections
// opened afterwards. Both arguments are little-endian float32 blobs of equal
// length.
func registerDistanceFunc() error {
	registerOnce.Do(func() {
		registerErr = sqlite3.RegisterScalarFunction(
			DistanceFunc, 2,
			func(_ *sqlite3.FunctionContext, args []driver.Value) (driver.Value, error) {
				a, ok := args[0].([]byte)
				if !ok {
					return nil, fmt.Errorf("%s: first argument is not a blob", DistanceFunc)
				}
				b, ok := args[1].([]byte)
				if !ok {
					return nil, fmt.Errorf("%s: second argument is not a blob", DistanceFunc)
				}
				va, err := DecodeVector(a)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", DistanceFunc, err)
				}
				vb, err := DecodeVector(b)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", DistanceFunc, err)
				}
				if len(va) != len(vb) {
					return nil, fmt.Errorf("%s: dimension mismatch %d vs %d", DistanceFunc, len(va), len(vb))
				}
				var sum float64
				for i := range va {
					d := float64(va[i]) - float64(vb[i])
					sum += d * d
				}
				return math.Sqrt(sum), nil
			},
		)
	})
	return registerErr
}

// Open opens (or creates) the SQLite database at path and configures the
// connection pool.
// _journal_mode=WAL: better read concurrency.
// _busy_timeout=5000: wait up to 5s for a lock instead of failing immediately.
func Open(path string) (*sql.DB, error) {
	if err := registerDistanceFunc(); err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: fmt.Errorf("register %s: %w", DistanceFunc, err)}
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(2 * time.Hour)

	return conn, nil
}

// WaitForReady polls the database until it responds or the timeout expires.
func WaitForReady(ctx context.Context, conn *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := conn.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

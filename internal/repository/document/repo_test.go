package document

import (
	"context"
	"testing"
)

func TestInsertBatch_ReturnsIDsInOrder(t *testing.T) {
	repo, conn := newTestRepo(t, 2)
	ctx := context.Background()

	ids, err := repo.InsertBatch(ctx, "docs", []Record{
		record("first", 1, 0),
		record("second", 0, 1),
		record("third", 1, 1),
	})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("len(ids) = %d, want 3", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("ids not ascending: %v", ids)
		}
	}

	// Trigger keeps the vector twin in lockstep.
	var rowN, vecN int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "docs"`).Scan(&rowN); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "vec_docs"`).Scan(&vecN); err != nil {
		t.Fatalf("count vec rows: %v", err)
	}
	if rowN != 3 || vecN != 3 {
		t.Errorf("rows = %d, vec rows = %d, want 3 and 3", rowN, vecN)
	}
}

func TestInsertBatch_RollsBackWholeBatch(t *testing.T) {
	repo, conn := newTestRepo(t, 2)
	ctx := context.Background()

	// The empty text violates the row table CHECK mid-batch; nothing from
	// the batch may survive.
	_, err := repo.InsertBatch(ctx, "docs", []Record{
		record("kept?", 1, 0),
		record("", 0, 1),
		record("never reached", 1, 1),
	})
	if err == nil {
		t.Fatal("expected constraint error")
	}

	var rowN, vecN int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "docs"`).Scan(&rowN); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "vec_docs"`).Scan(&vecN); err != nil {
		t.Fatalf("count vec rows: %v", err)
	}
	if rowN != 0 || vecN != 0 {
		t.Errorf("rows = %d, vec rows = %d after failed batch, want 0 and 0", rowN, vecN)
	}
}

func TestInsertBatch_Empty(t *testing.T) {
	repo, _ := newTestRepo(t, 2)

	ids, err := repo.InsertBatch(context.Background(), "docs", nil)
	if err != nil {
		t.Fatalf("InsertBatch(nil): %v", err)
	}
	if ids != nil {
		t.Errorf("ids = %v, want nil", ids)
	}
}

func TestDelete_RemovesRowsAndVectors(t *testing.T) {
	repo, conn := newTestRepo(t, 2)
	ctx := context.Background()

	ids, err := repo.InsertBatch(ctx, "docs", []Record{
		record("a", 1, 0),
		record("b", 0, 1),
	})
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	if err := repo.Delete(ctx, "docs", ids[:1]); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	n, err := repo.Count(ctx, "docs")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}

	var vecN int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM "vec_docs"`).Scan(&vecN); err != nil {
		t.Fatalf("count vec rows: %v", err)
	}
	if vecN != 1 {
		t.Errorf("vec rows = %d, want 1", vecN)
	}
}

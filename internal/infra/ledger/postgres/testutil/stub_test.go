package testutil

import (
	"context"
	"database/sql/driver"
	"testing"
)

func TestStubDBStoresAndQueriesRows(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()

	if err := conn.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	insert := "INSERT INTO runs(id,payload) VALUES($1,$2) ON CONFLICT(id) DO UPDATE SET payload=EXCLUDED.payload"
	for _, v := range []string{"a", "b"} {
		if _, err := conn.ExecContext(ctx, insert, []driver.NamedValue{{Value: "run-1"}, {Value: v}}); err != nil {
			t.Fatalf("ExecContext insert: %v", err)
		}
	}
	if _, err := conn.ExecContext(ctx, insert, []driver.NamedValue{{Value: "run-2"}, {Value: "c"}}); err != nil {
		t.Fatalf("ExecContext insert: %v", err)
	}
	if len(conn.Tables["runs"]) != 2 {
		t.Fatalf("expected upsert to keep two rows, got %v", conn.Tables["runs"])
	}

	rows, err := conn.QueryContext(ctx, "SELECT id, payload FROM runs WHERE id = $1", []driver.NamedValue{{Value: "run-1"}})
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	dest := make([]driver.Value, 2)
	if err := rows.Next(dest); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if dest[0] != "run-1" || dest[1] != "b" {
		t.Fatalf("unexpected row values: %v", dest)
	}
	if err := rows.Next(dest); err == nil {
		t.Fatal("expected a single filtered row")
	}

	if _, err := conn.ExecContext(ctx, "DELETE FROM runs WHERE id=$1", []driver.NamedValue{{Value: "run-1"}}); err != nil {
		t.Fatalf("ExecContext delete: %v", err)
	}
	if len(conn.Tables["runs"]) != 1 {
		t.Fatalf("expected one row after delete, got %v", conn.Tables["runs"])
	}
}

func TestStubDBFailureSwitches(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()
	conn.FailPing = true
	if err := conn.Ping(ctx); err == nil {
		t.Fatal("expected ping failure")
	}
	conn.FailQuery = true
	if _, err := conn.QueryContext(ctx, "SELECT id FROM runs", nil); err == nil {
		t.Fatal("expected query failure")
	}
	if _, err := conn.QueryContext(ctx, "UPDATE runs", nil); err == nil {
		t.Fatal("expected parse failure")
	}
}

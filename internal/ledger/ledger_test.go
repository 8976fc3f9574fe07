package ledger

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	mem, err := Open(ctx, Config{})
	if err != nil || mem.Driver() != DriverMemory {
		t.Fatalf("expected memory default: %v", err)
	}
	lite, err := Open(ctx, Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "runs.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = lite.Close() }()
	if lite.Driver() != DriverSQLite {
		t.Fatalf("expected sqlite, got %s", lite.Driver())
	}
	if _, err := Open(ctx, Config{Driver: "mongo"}); err == nil {
		t.Fatal("expected unknown driver error")
	}
}

package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"hcroi/internal/blob/core"
)

func TestStore_RoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()
	info, err := store.Put(ctx, "run-1/derived.csv", bytes.NewReader([]byte("a,b\n")), core.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"format": "csv"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 4 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	got, rc, err := store.Get(ctx, "run-1/derived.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "a,b\n" || got.Metadata["format"] != "csv" {
		t.Fatalf("unexpected object %q %+v", b, got)
	}
	if _, err := store.Put(ctx, "run-1/derived.csv", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if list, err := store.List(ctx, "run-1/"); err != nil || len(list) != 1 {
		t.Fatalf("list: %v %d", err, len(list))
	}
	if list, err := store.List(ctx, "run-2/"); err != nil || len(list) != 0 {
		t.Fatalf("list other prefix: %v %d", err, len(list))
	}
	if ok, err := store.Delete(ctx, "run-1/derived.csv"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "run-1/derived.csv"); err != nil || ok {
		t.Fatalf("second delete should report false")
	}
}

func TestStore_MissingAndInvalidKeys(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Put(ctx, "../x", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := store.PresignURL(ctx, "k", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported presign")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStore_PutErrors(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
	big := bytes.NewReader(make([]byte, core.MaxObjectSize+1))
	if _, err := store.Put(context.Background(), "big", big, core.PutOptions{}); !errors.Is(err, core.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

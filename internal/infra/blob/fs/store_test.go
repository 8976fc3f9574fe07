package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hcroi/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStore_PutGetHeadListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	info, err := store.Put(ctx, "run-1/report.txt", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "text/plain", Metadata: map[string]string{"k": "v"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "run-1/report.txt" || info.Size != 5 || !strings.HasPrefix(info.URL, "file://") {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "run-1/report.txt", bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	h, err := store.Head(ctx, "run-1/report.txt")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	g, rc, err := store.Get(ctx, "run-1/report.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(b) != "hello" || g.ETag != h.ETag || g.Metadata["k"] != "v" {
		t.Fatalf("unexpected get result")
	}
	onDisk, err := os.ReadFile(filepath.Join(store.Root(), "run-1", "report.txt"))
	if err != nil || string(onDisk) != "hello" {
		t.Fatalf("expected plain file on disk: %v %q", err, onDisk)
	}
	list, err := store.List(ctx, "run-1/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "run-1/report.txt" {
		t.Fatalf("unexpected list %+v", list)
	}
	if url, err := store.PresignURL(ctx, "run-1/report.txt", core.SignedURLOptions{}); err != nil || url != info.URL {
		t.Fatalf("presign url: %v %s", err, url)
	}
	if _, err := store.PresignURL(ctx, "run-1/report.txt", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported PUT presign")
	}
	ok, err := store.Delete(ctx, "run-1/report.txt")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "run-1/report.txt")
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
	if _, err := store.Head(ctx, "run-1/report.txt"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_RejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"../escape.txt", "/abs.txt", "", "a/../../b", "x.meta", "bad\x00name"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestStore_SizeLimitLeavesNoFile(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	big := bytes.NewReader(make([]byte, core.MaxObjectSize+1))
	if _, err := store.Put(ctx, "big.bin", big, core.PutOptions{}); !errors.Is(err, core.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "big.bin")); !os.IsNotExist(err) {
		t.Fatalf("expected no file after rejected write, got %v", err)
	}
}

func TestStore_ListSkipsTempFilesAndSortsKeys(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, k := range []string{"b/2.csv", "a/1.csv", "b/1.csv"} {
		if _, err := store.Put(ctx, k, strings.NewReader(k), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	if err := os.WriteFile(filepath.Join(store.Root(), "a", "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray: %v", err)
	}
	list, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var keys []string
	for _, in := range list {
		keys = append(keys, in.Key)
	}
	if strings.Join(keys, ",") != "a/1.csv,b/1.csv,b/2.csv" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestStore_CorruptSidecar(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "k.txt", strings.NewReader("v"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Root(), "k.txt.meta"), []byte("{"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if _, err := store.Head(ctx, "k.txt"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, _, err := store.Get(ctx, "k.txt"); err == nil {
		t.Fatal("expected decode error on get")
	}
}

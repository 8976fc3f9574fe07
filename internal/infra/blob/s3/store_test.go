package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"hcroi/internal/blob/core"
)

func TestStore_RoundTripThroughFakeBucket(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if store.Driver() != core.DriverS3 {
		t.Fatalf("expected s3 driver")
	}
	body := []byte("line one\r\nline two\n")
	info, err := store.Put(ctx, "run-1/derived.csv", bytes.NewReader(body), core.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"format": "csv"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "run-1/derived.csv" || info.Size != int64(len(body)) || info.ContentType != "text/csv" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "run-1/derived.csv", bytes.NewReader(body), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, rc, err := store.Get(ctx, "run-1/derived.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(b, body) {
		t.Fatalf("body mismatch: %q", b)
	}
	if got.Metadata["format"] != "csv" {
		t.Fatalf("expected metadata round trip, got %v", got.Metadata)
	}
	ok, err := store.Delete(ctx, "run-1/derived.csv")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "run-1/derived.csv")
	if err != nil || ok {
		t.Fatalf("second delete should report false: %v %v", ok, err)
	}
	if _, err := store.Head(ctx, "run-1/derived.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := store.Get(ctx, "run-1/derived.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
}

func TestStore_ListPaginatesAndStripsPrefix(t *testing.T) {
	ctx := context.Background()
	store := newMock("reports", 2)
	for _, k := range []string{"r/c.txt", "r/a.txt", "r/b.txt", "other/x.txt"} {
		if _, err := store.Put(ctx, k, strings.NewReader(k), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	list, err := store.List(ctx, "r/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var keys []string
	for _, in := range list {
		keys = append(keys, in.Key)
	}
	if strings.Join(keys, ",") != "r/a.txt,r/b.txt,r/c.txt" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestStore_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if _, err := store.Put(ctx, "../x", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	big := bytes.NewReader(make([]byte, core.MaxObjectSize+1))
	if _, err := store.Put(ctx, "big", big, core.PutOptions{}); !errors.Is(err, core.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := store.PresignURL(ctx, "k", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported presign method")
	}
	url, err := store.PresignURL(ctx, "k", core.SignedURLOptions{})
	if err != nil || !strings.Contains(url, "mock-bucket/k") || !strings.Contains(url, "X-Amz-Signature") {
		t.Fatalf("unexpected presigned url %q: %v", url, err)
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected bucket error")
	}
}

func TestNew_StaticCredentials(t *testing.T) {
	store, err := New(context.Background(), Config{Bucket: "b", Prefix: "/runs/", AccessKeyID: "id", SecretAccessKey: "secret", Endpoint: "http://localhost:9000", PathStyle: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if store.prefix != "runs/" {
		t.Fatalf("expected normalised prefix, got %q", store.prefix)
	}
}

func TestDecodeChunked(t *testing.T) {
	raw := []byte("5;chunk-signature=abc\r\nhel\r\n\r\n2\r\nlo\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n")
	got, err := decodeChunked(raw)
	if err != nil || string(got) != "hel\r\nlo" {
		t.Fatalf("decode: %q %v", got, err)
	}
	if _, err := decodeChunked([]byte("zz\r\n")); err == nil {
		t.Fatal("expected bad size error")
	}
}

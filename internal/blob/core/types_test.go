package core

import (
	"bytes"
	"errors"
	"testing"
)

func TestCleanKey(t *testing.T) {
	valid := map[string]string{
		"run/a.csv":   "run/a.csv",
		"run//a.csv":  "run/a.csv",
		"run/./a.csv": "run/a.csv",
		`run\a.csv`:   "run/a.csv",
	}
	for in, want := range valid {
		got, err := CleanKey(in)
		if err != nil || got != want {
			t.Fatalf("CleanKey(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"", "  ", "/etc/passwd", "../x", "a/../../x", "a/..", ".", "tab\tname"} {
		if _, err := CleanKey(in); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("CleanKey(%q): expected ErrInvalidKey, got %v", in, err)
		}
	}
}

func TestReadLimited(t *testing.T) {
	b, err := ReadLimited(bytes.NewReader(make([]byte, MaxObjectSize)))
	if err != nil || int64(len(b)) != MaxObjectSize {
		t.Fatalf("expected exact limit to pass: %d %v", len(b), err)
	}
	if _, err := ReadLimited(bytes.NewReader(make([]byte, MaxObjectSize+1))); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestCloneMetadata(t *testing.T) {
	if CloneMetadata(nil) != nil {
		t.Fatal("expected nil clone")
	}
	in := map[string]string{"a": "1"}
	out := CloneMetadata(in)
	out["a"] = "2"
	if in["a"] != "1" {
		t.Fatal("clone aliases input")
	}
}

package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"lexret/pkg/config"
	pkgerrors "lexret/pkg/errors"
)

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSourceLoad(t *testing.T) {
	path := writeCorpusFile(t, "first document\nsecond document\n\n   \nthird document\n")

	docs, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"first document", "second document", "third document"}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("Load = %v, want %v", docs, want)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.txt")).Load(context.Background())
	if !errors.Is(err, pkgerrors.ErrCorpusUnavailable) {
		t.Errorf("Load error = %v, want ErrCorpusUnavailable", err)
	}
}

func TestNewSelectsFileSource(t *testing.T) {
	src, err := New(config.CorpusConfig{Source: "file", Path: "corpus.txt"}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if src.Name() != "file" {
		t.Errorf("Name = %q, want file", src.Name())
	}
}

func TestNewDefaultsToFileSource(t *testing.T) {
	src, err := New(config.CorpusConfig{Path: "corpus.txt"}, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if src.Name() != "file" {
		t.Errorf("Name = %q, want file", src.Name())
	}
}

func TestNewRejectsUnknownSource(t *testing.T) {
	_, err := New(config.CorpusConfig{Source: "s3"}, nil)
	if !errors.Is(err, pkgerrors.ErrInvalidInput) {
		t.Errorf("New error = %v, want ErrInvalidInput", err)
	}
}

// Package corpus loads the fixed document corpus the retriever is fitted
// from. Sources are read once at startup; the corpus never changes for the
// lifetime of the process.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"lexret/pkg/config"
	pkgerrors "lexret/pkg/errors"
)

// Source yields the ordered document corpus. Document identity is the
// position in the returned slice.
type Source interface {
	Load(ctx context.Context) ([]string, error)
	Name() string
}

// FileSource reads one document per line from a plain-text file. Blank
// lines are skipped so that trailing newlines do not create empty
// documents.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// Load reads the corpus file.
func (s *FileSource) Load(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening corpus file %s: %v", pkgerrors.ErrCorpusUnavailable, s.path, err)
	}
	defer f.Close()

	var docs []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		docs = append(docs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus file %s: %w", s.path, err)
	}
	return docs, nil
}

// New builds the Source selected by cfg. The postgres source needs an open
// database handle supplied by the caller via openPostgres, so that the
// caller owns the connection lifecycle.
func New(cfg config.CorpusConfig, openPostgres func() (*PostgresSource, error)) (Source, error) {
	switch cfg.Source {
	case "", "file":
		return NewFileSource(cfg.Path), nil
	case "postgres":
		return openPostgres()
	default:
		return nil, fmt.Errorf("%w: unknown corpus source %q", pkgerrors.ErrInvalidInput, cfg.Source)
	}
}

package corpus

import (
	"context"
	"fmt"
	"log/slog"

	"lexret/pkg/postgres"
)

// PostgresSource reads the corpus from a SQL query returning a single text
// column in a stable order.
type PostgresSource struct {
	client *postgres.Client
	query  string
	logger *slog.Logger
}

// NewPostgresSource wraps an open postgres client. The caller keeps
// ownership of the client and closes it after fitting.
func NewPostgresSource(client *postgres.Client, query string) *PostgresSource {
	return &PostgresSource{
		client: client,
		query:  query,
		logger: slog.Default().With("component", "corpus-postgres"),
	}
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres" }

// Load runs the corpus query and collects the documents in result order.
func (s *PostgresSource) Load(ctx context.Context) ([]string, error) {
	rows, err := s.client.DB.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning corpus row %d: %w", len(docs), err)
		}
		docs = append(docs, body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating corpus rows: %w", err)
	}
	s.logger.Info("corpus loaded from postgres", "documents", len(docs))
	return docs, nil
}

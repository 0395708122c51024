package source

import (
	"context"
	"database/sql"
	"fmt"

	"nidgate/internal/birthplace"
	"nidgate/pkg/platform/sentinel"
)

// Table layout:
//
//	CREATE TABLE birthplace_codes (
//	    position integer PRIMARY KEY,
//	    province text,
//	    prefix   char(3) NOT NULL,
//	    city     text NOT NULL
//	);
//
// position fixes scan order, which decides duplicate prefixes. A NULL
// province yields a flat entry.
const loadQuery = `SELECT province, prefix, city FROM birthplace_codes ORDER BY position`

// PostgresSource reads the dataset from the birthplace_codes table.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Load(ctx context.Context) ([]birthplace.Entry, error) {
	rows, err := s.db.QueryContext(ctx, loadQuery)
	if err != nil {
		return nil, fmt.Errorf("query birthplace_codes: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var entries []birthplace.Entry
	for rows.Next() {
		var (
			province sql.NullString
			prefix   string
			city     string
		)
		if err := rows.Scan(&province, &prefix, &city); err != nil {
			return nil, fmt.Errorf("scan birthplace_codes: %w: %w", sentinel.ErrMalformed, err)
		}
		entries = append(entries, birthplace.Entry{
			Prefix:   prefix,
			Province: province.String,
			City:     city,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate birthplace_codes: %w", err)
	}
	return entries, nil
}

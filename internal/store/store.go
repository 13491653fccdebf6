// Package store turns a finished parse result into a SQL query against a
// disclosures table and runs it over SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sharonv/disclosq/internal/model"
	"github.com/sharonv/disclosq/internal/timeframe"
)

// SchemaConfig names the table and columns the query builder targets.
type SchemaConfig struct {
	Table          string
	IssuerColumn   string
	CategoryColumn string
	DateColumn     string
	// Descending orders newest disclosures first.
	Descending bool
}

// DefaultSchemaConfig returns the schema used by the bundled disclosure
// database.
func DefaultSchemaConfig() SchemaConfig {
	return SchemaConfig{
		Table:          "disclosures",
		IssuerColumn:   "issuer_name",
		CategoryColumn: "form_type",
		DateColumn:     "publication_date",
		Descending:     true,
	}
}

// BuiltQuery is a parameterized SQL statement.
type BuiltQuery struct {
	SQL  string
	Args []any
}

// Build converts a parse result into a filtered SELECT. Results carrying a
// terminal error produce no query. Relative timeframes are resolved
// against today before filtering.
func Build(r *model.ParseResult, cfg SchemaConfig, today time.Time) (*BuiltQuery, error) {
	if r == nil {
		return nil, fmt.Errorf("nil parse result")
	}
	if r.Error != "" {
		return nil, fmt.Errorf("query not built: %s", r.Error)
	}

	var where []string
	var args []any

	if len(r.Companies) > 0 {
		where = append(where, inClause(cfg.IssuerColumn, len(r.Companies)))
		for _, c := range r.Companies {
			args = append(args, c)
		}
	}
	if len(r.ReportTypes) > 0 {
		where = append(where, inClause(cfg.CategoryColumn, len(r.ReportTypes)))
		for _, rt := range r.ReportTypes {
			args = append(args, rt)
		}
	}

	tf := r.TimeFrame
	if tf.Kind == model.TimeFrameRelative {
		tf = timeframe.RelativeToAbsolute(tf, today)
	}
	if tf.Kind == model.TimeFrameAbsolute {
		where = append(where, fmt.Sprintf("%s BETWEEN ? AND ?", cfg.DateColumn))
		args = append(args, tf.StartDate.Format(model.DateLayout), tf.EndDate.Format(model.DateLayout))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s, %s, %s FROM %s",
		cfg.IssuerColumn, cfg.CategoryColumn, cfg.DateColumn, cfg.Table)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	dir := "ASC"
	if cfg.Descending {
		dir = "DESC"
	}
	fmt.Fprintf(&b, " ORDER BY %s %s", cfg.DateColumn, dir)
	if r.Quantity != nil && *r.Quantity > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, *r.Quantity)
	}

	return &BuiltQuery{SQL: b.String(), Args: args}, nil
}

func inClause(column string, n int) string {
	return fmt.Sprintf("%s IN (%s)", column, strings.TrimSuffix(strings.Repeat("?, ", n), ", "))
}

// Disclosure is one row of the disclosures table.
type Disclosure struct {
	Issuer          string `json:"issuer"`
	Category        string `json:"category"`
	PublicationDate string `json:"publication_date"`
}

// Store wraps a SQLite disclosure database.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Exec runs a built query and scans the matching disclosures.
func (s *Store) Exec(ctx context.Context, q *BuiltQuery) ([]Disclosure, error) {
	rows, err := s.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("query disclosures: %w", err)
	}
	defer rows.Close()

	var out []Disclosure
	for rows.Next() {
		var d Disclosure
		if err := rows.Scan(&d.Issuer, &d.Category, &d.PublicationDate); err != nil {
			return nil, fmt.Errorf("scan disclosure: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate disclosures: %w", err)
	}
	return out, nil
}

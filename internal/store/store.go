// Package store persists integrated flanking annotation tables in
// DuckDB for ad-hoc SQL analysis.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/metaflank/flankscope/internal/integrate"
)

// Store manages a DuckDB connection holding flanking annotations.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS flanking_annotations (
		target_name VARCHAR,
		target_file VARCHAR,
		source VARCHAR,
		prot_start BIGINT,
		prot_end BIGINT,
		flanking_id VARCHAR,
		flanking_start BIGINT,
		flanking_end BIGINT,
		flanking_strand INTEGER,
		relative_distance BIGINT,
		emapper_evalue VARCHAR,
		emapper_protein_start VARCHAR,
		emapper_protein_end VARCHAR,
		emapper_protein_cov VARCHAR,
		emapper_pfams VARCHAR,
		emapper_description VARCHAR,
		pfam_evalue VARCHAR,
		pfam_score VARCHAR,
		pfam_query_name VARCHAR
	)`)
	return err
}

// InsertJoined batch-inserts joined rows using the Appender API.
func (s *Store) InsertJoined(rows []integrate.JoinedRow) error {
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "flanking_annotations")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rows {
		if err := appender.AppendRow(
			r.TargetName, r.TargetFile, r.Source,
			int64(r.ProtStart), int64(r.ProtEnd),
			r.FlankingID, int64(r.FlankingStart), int64(r.FlankingEnd),
			int32(r.FlankingStrand), int64(r.RelativeDist),
			r.Ortholog.Evalue, r.Ortholog.ProteinStart, r.Ortholog.ProteinEnd,
			r.Ortholog.ProteinCov, r.Ortholog.PFAMs, r.Ortholog.Description,
			r.Domain.Evalues, r.Domain.Scores, r.Domain.QueryNames,
		); err != nil {
			return fmt.Errorf("append flanking annotation: %w", err)
		}
	}
	return appender.Flush()
}

// Count returns the number of stored rows.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM flanking_annotations").Scan(&n)
	return n, err
}

// Clear removes all stored rows.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM flanking_annotations")
	return err
}

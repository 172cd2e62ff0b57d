// Package store persists analysis runs in a SQLite database so earlier
// results can be listed and compared without refitting. Non-finite index
// values are stored as NULL and surface again as NaN on the way out.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/tmsalab/pathmodelfit"
)

const defaultListLimit = 50

// Run is one persisted analysis: the inputs that identify it, the original
// fit statistics, and the eight computed indices.
type Run struct {
	ID         int64
	Name       string
	Model      string
	SampleSize int
	ChiSquare  float64
	DF         float64
	Result     pathmodelfit.PathFit
	CreatedAt  time.Time
}

// Store wraps a pooled sqlx connection to the runs database.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at path, creating and migrating it
// when missing.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", abs)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`PRAGMA journal_mode = WAL;`,
	`CREATE TABLE IF NOT EXISTS runs (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                name TEXT NOT NULL,
                model TEXT NOT NULL,
                sample_size INTEGER NOT NULL,
                chisq REAL NOT NULL,
                df REAL NOT NULL,
                rmsea_p REAL,
                rmsea_p_ci_lower REAL,
                rmsea_p_ci_upper REAL,
                nsci_p REAL,
                srmr_s REAL,
                rmsea_s REAL,
                tli_s REAL,
                cfi_s REAL,
                created_at TEXT NOT NULL
        );`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);`,
}

// runRow is the database image of a Run; index slots are nullable.
type runRow struct {
	ID         int64           `db:"id"`
	Name       string          `db:"name"`
	Model      string          `db:"model"`
	SampleSize int             `db:"sample_size"`
	ChiSquare  float64         `db:"chisq"`
	DF         float64         `db:"df"`
	RMSEAP     sql.NullFloat64 `db:"rmsea_p"`
	RMSEAPLo   sql.NullFloat64 `db:"rmsea_p_ci_lower"`
	RMSEAPHi   sql.NullFloat64 `db:"rmsea_p_ci_upper"`
	NSCIP      sql.NullFloat64 `db:"nsci_p"`
	SRMRS      sql.NullFloat64 `db:"srmr_s"`
	RMSEAS     sql.NullFloat64 `db:"rmsea_s"`
	TLIS       sql.NullFloat64 `db:"tli_s"`
	CFIS       sql.NullFloat64 `db:"cfi_s"`
	CreatedAt  string          `db:"created_at"`
}

func toNull(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// RecordRun inserts a run and returns its assigned id. A zero CreatedAt is
// stamped with the current time.
func (s *Store) RecordRun(ctx context.Context, run Run) (int64, error) {
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	row := runRow{
		Name:       run.Name,
		Model:      run.Model,
		SampleSize: run.SampleSize,
		ChiSquare:  run.ChiSquare,
		DF:         run.DF,
		RMSEAP:     toNull(run.Result.RMSEAP),
		RMSEAPLo:   toNull(run.Result.RMSEAPLower),
		RMSEAPHi:   toNull(run.Result.RMSEAPUpper),
		NSCIP:      toNull(run.Result.NSCIP),
		SRMRS:      toNull(run.Result.SRMRS),
		RMSEAS:     toNull(run.Result.RMSEAS),
		TLIS:       toNull(run.Result.TLIS),
		CFIS:       toNull(run.Result.CFIS),
		CreatedAt:  created.Format(time.RFC3339Nano),
	}
	res, err := s.db.NamedExecContext(ctx, `
                INSERT INTO runs (name, model, sample_size, chisq, df,
                        rmsea_p, rmsea_p_ci_lower, rmsea_p_ci_upper, nsci_p,
                        srmr_s, rmsea_s, tli_s, cfi_s, created_at)
                VALUES (:name, :model, :sample_size, :chisq, :df,
                        :rmsea_p, :rmsea_p_ci_lower, :rmsea_p_ci_upper, :nsci_p,
                        :srmr_s, :rmsea_s, :tli_s, :cfi_s, :created_at)`, row)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read run id: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var rows []runRow
	err := s.db.SelectContext(ctx, &rows, `
                SELECT * FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs := make([]Run, len(rows))
	for i, row := range rows {
		created, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse run %d timestamp: %w", row.ID, err)
		}
		runs[i] = Run{
			ID:         row.ID,
			Name:       row.Name,
			Model:      row.Model,
			SampleSize: row.SampleSize,
			ChiSquare:  row.ChiSquare,
			DF:         row.DF,
			Result: pathmodelfit.PathFit{
				RMSEAP:      fromNull(row.RMSEAP),
				RMSEAPLower: fromNull(row.RMSEAPLo),
				RMSEAPUpper: fromNull(row.RMSEAPHi),
				NSCIP:       fromNull(row.NSCIP),
				SRMRS:       fromNull(row.SRMRS),
				RMSEAS:      fromNull(row.RMSEAS),
				TLIS:        fromNull(row.TLIS),
				CFIS:        fromNull(row.CFIS),
			},
			CreatedAt: created,
		}
	}
	return runs, nil
}

package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrInvalidRun  = errors.New("run must have a clip type")
)

// Store records a summary of every crawl run using SQLite. It is an audit
// log; it is never consulted to decide whether a clip was already archived.
type Store struct {
	db *sql.DB
}

// Run summarizes one crawl.
type Run struct {
	ID           uuid.UUID
	ClipType     string
	TeamName     string // empty when no filter was set
	StartDate    time.Time
	EndDate      time.Time
	DryRun       bool
	PagesFetched int
	Discovered   int
	Accepted     int
	Rejected     int
	Failed       int
	StartedAt    time.Time
	FinishedAt   *time.Time
	Error        *string // set when the run aborted
}

// NewStore opens or creates the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the runs table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		clip_type TEXT NOT NULL,
		team_name TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		dry_run INTEGER NOT NULL DEFAULT 0,
		pages_fetched INTEGER NOT NULL DEFAULT 0,
		discovered INTEGER NOT NULL DEFAULT 0,
		accepted INTEGER NOT NULL DEFAULT 0,
		rejected INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		error TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun records the beginning of a run and assigns its ID.
func (s *Store) StartRun(run *Run) error {
	if run.ClipType == "" {
		return ErrInvalidRun
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	query := `
		INSERT INTO runs (
			run_id, clip_type, team_name, start_date, end_date, dry_run, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		run.ID.String(),
		run.ClipType,
		nullString(run.TeamName),
		formatTime(&run.StartDate),
		formatTime(&run.EndDate),
		run.DryRun,
		formatTime(&run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// FinishRun stores the final counts of a run. runErr is recorded when the
// run aborted.
func (s *Store) FinishRun(run *Run, runErr error) error {
	now := time.Now()
	run.FinishedAt = &now
	if runErr != nil {
		msg := runErr.Error()
		run.Error = &msg
	}

	query := `
		UPDATE runs SET
			pages_fetched = ?, discovered = ?, accepted = ?, rejected = ?,
			failed = ?, finished_at = ?, error = ?
		WHERE run_id = ?
	`

	result, err := s.db.Exec(query,
		run.PagesFetched, run.Discovered, run.Accepted, run.Rejected,
		run.Failed, formatTime(run.FinishedAt), run.Error,
		run.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id uuid.UUID) (*Run, error) {
	row := s.db.QueryRow(selectRuns+" WHERE run_id = ?", id.String())

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRuns lists the most recent runs first. A limit of zero lists all.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := selectRuns + " ORDER BY started_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

const selectRuns = `
	SELECT run_id, clip_type, team_name, start_date, end_date, dry_run,
	       pages_fetched, discovered, accepted, rejected, failed,
	       started_at, finished_at, error
	FROM runs
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var idStr, clipType, startDate, endDate, startedAt string
	var teamName, finishedAt, runErr sql.NullString
	var run Run

	err := row.Scan(
		&idStr, &clipType, &teamName, &startDate, &endDate, &run.DryRun,
		&run.PagesFetched, &run.Discovered, &run.Accepted, &run.Rejected, &run.Failed,
		&startedAt, &finishedAt, &runErr,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid run_id: %w", err)
	}
	run.ID = id
	run.ClipType = clipType
	run.TeamName = teamName.String
	run.StartDate = parseTime(startDate)
	run.EndDate = parseTime(endDate)
	run.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		t := parseTime(finishedAt.String)
		run.FinishedAt = &t
	}
	if runErr.Valid {
		run.Error = &runErr.String
	}

	return &run, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	// UTC so that started_at sorts as text
	return t.UTC().Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}

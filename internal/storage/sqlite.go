// Package storage provides SQLite-based persistence for trial results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/mazebot/internal/sim"
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// TrialEntry represents a single stored trial.
type TrialEntry struct {
	ID        int64
	TrialID   string
	BatchID   string // empty for one-off runs
	Maze      string
	Algorithm string
	Seed      int64
	Outcome   sim.Outcome
	Message   string
	Run1      int
	Run2      int
	Score     float64
	Coverage  float64
	Steps     int
	CreatedAt time.Time
}

// EntryFromResult converts a harness result into a storable entry with a
// fresh trial ID.
func EntryFromResult(r sim.Result) TrialEntry {
	return TrialEntry{
		TrialID:   uuid.NewString(),
		Maze:      r.Maze,
		Algorithm: r.Algorithm,
		Seed:      r.Seed,
		Outcome:   r.Outcome,
		Message:   r.Message,
		Run1:      r.Run1,
		Run2:      r.Run2,
		Score:     r.Score,
		Coverage:  r.Coverage,
		Steps:     r.Steps,
	}
}

// BatchEntry represents a stored batch header.
type BatchEntry struct {
	ID         string
	Seed       int64
	Trials     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			trials INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS trials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trial_id TEXT NOT NULL UNIQUE,
			batch_id TEXT REFERENCES batches(id) ON DELETE CASCADE,
			maze TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			seed INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			run1 INTEGER NOT NULL DEFAULT 0,
			run2 INTEGER NOT NULL DEFAULT 0,
			score REAL NOT NULL DEFAULT 0,
			coverage REAL NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_trials_maze_alg ON trials(maze, algorithm);
		CREATE INDEX IF NOT EXISTS idx_trials_top ON trials(maze, outcome, score);
		CREATE INDEX IF NOT EXISTS idx_trials_batch ON trials(batch_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const insertTrial = `INSERT INTO trials
	(trial_id, batch_id, maze, algorithm, seed, outcome, message, run1, run2, score, coverage, steps)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertEntry(db execer, e TrialEntry) (sql.Result, error) {
	if e.TrialID == "" {
		e.TrialID = uuid.NewString()
	}
	var batchID sql.NullString
	if e.BatchID != "" {
		batchID = sql.NullString{String: e.BatchID, Valid: true}
	}
	return db.Exec(insertTrial,
		e.TrialID, batchID, e.Maze, e.Algorithm, e.Seed, string(e.Outcome), e.Message,
		e.Run1, e.Run2, e.Score, e.Coverage, e.Steps,
	)
}

// SaveTrial records a single trial.
// Returns the ID of the inserted record.
func (s *Store) SaveTrial(e TrialEntry) (int64, error) {
	result, err := insertEntry(s.db, e)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save trial: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveBatch records a batch report and all of its trials in one transaction.
func (s *Store) SaveBatch(report *sim.Report) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	batchID := report.ID.String()
	if _, err := tx.Exec(
		"INSERT INTO batches (id, seed, trials, started_at, finished_at) VALUES (?, ?, ?, ?, ?)",
		batchID, report.Seed, len(report.Records), report.Started.UTC(), report.Finished.UTC(),
	); err != nil {
		return fmt.Errorf("storage: cannot save batch: %w", err)
	}

	for _, rec := range report.Records {
		e := EntryFromResult(rec.Result)
		e.TrialID = rec.ID.String()
		e.BatchID = batchID
		if _, err := insertEntry(tx, e); err != nil {
			return fmt.Errorf("storage: cannot save trial %s: %w", e.TrialID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit batch: %w", err)
	}
	return nil
}

const trialColumns = `id, trial_id, batch_id, maze, algorithm, seed, outcome, message,
	run1, run2, score, coverage, steps, created_at`

func (s *Store) queryTrials(query string, args ...any) ([]TrialEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query trials: %w", err)
	}
	defer rows.Close()

	var entries []TrialEntry
	for rows.Next() {
		var e TrialEntry
		var batchID sql.NullString
		var outcome string
		var createdAt any
		if err := rows.Scan(
			&e.ID, &e.TrialID, &batchID, &e.Maze, &e.Algorithm, &e.Seed, &outcome, &e.Message,
			&e.Run1, &e.Run2, &e.Score, &e.Coverage, &e.Steps, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.BatchID = batchID.String
		e.Outcome = sim.Outcome(outcome)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// TopTrials retrieves the best completed trials on a maze, lowest score first.
// An empty algorithm matches every algorithm.
func (s *Store) TopTrials(maze, algorithm string, limit int) ([]TrialEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryTrials(
		`SELECT `+trialColumns+`
		 FROM trials
		 WHERE maze = ? AND outcome = ? AND (? = '' OR algorithm = ?)
		 ORDER BY score ASC, id ASC
		 LIMIT ?`,
		maze, string(sim.OutcomeCompleted), algorithm, algorithm, limit,
	)
}

// RecentTrials retrieves the most recently stored trials.
func (s *Store) RecentTrials(limit int) ([]TrialEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryTrials(
		`SELECT `+trialColumns+`
		 FROM trials
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// BatchTrials retrieves the trials of one batch in insertion order.
func (s *Store) BatchTrials(batchID string) ([]TrialEntry, error) {
	return s.queryTrials(
		`SELECT `+trialColumns+`
		 FROM trials
		 WHERE batch_id = ?
		 ORDER BY id ASC`,
		batchID,
	)
}

// TrialByID retrieves a trial by its trial ID. Returns nil if not found.
func (s *Store) TrialByID(trialID string) (*TrialEntry, error) {
	entries, err := s.queryTrials(
		`SELECT `+trialColumns+` FROM trials WHERE trial_id = ?`,
		trialID,
	)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// Batch retrieves a batch header. Returns nil if not found.
func (s *Store) Batch(id string) (*BatchEntry, error) {
	var b BatchEntry
	var started, finished any
	err := s.db.QueryRow(
		"SELECT id, seed, trials, started_at, finished_at FROM batches WHERE id = ?",
		id,
	).Scan(&b.ID, &b.Seed, &b.Trials, &started, &finished)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query batch: %w", err)
	}
	b.StartedAt = parseTime(started)
	b.FinishedAt = parseTime(finished)
	return &b, nil
}

// ClearTrials deletes all trials on the given maze.
func (s *Store) ClearTrials(maze string) error {
	_, err := s.db.Exec("DELETE FROM trials WHERE maze = ?", maze)
	if err != nil {
		return fmt.Errorf("storage: cannot clear trials: %w", err)
	}
	return nil
}

// AlgorithmStats contains aggregated statistics for one algorithm on one maze.
type AlgorithmStats struct {
	Maze         string
	Algorithm    string
	Trials       int
	Completed    int
	BestScore    float64
	AvgScore     float64
	AvgCoverage  float64
	LastFinished time.Time
}

// SuccessRate returns completed trials as a fraction of all trials.
func (a AlgorithmStats) SuccessRate() float64 {
	if a.Trials == 0 {
		return 0
	}
	return float64(a.Completed) / float64(a.Trials)
}

// GetAlgorithmStats retrieves per-algorithm statistics. An empty maze
// aggregates over every maze.
func (s *Store) GetAlgorithmStats(maze string) ([]AlgorithmStats, error) {
	rows, err := s.db.Query(
		`SELECT maze, algorithm, COUNT(*),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN score END), 0),
		        COALESCE(AVG(CASE WHEN outcome = ? THEN score END), 0),
		        AVG(coverage),
		        MAX(created_at)
		 FROM trials
		 WHERE ? = '' OR maze = ?
		 GROUP BY maze, algorithm
		 ORDER BY maze, algorithm`,
		string(sim.OutcomeCompleted), string(sim.OutcomeCompleted), string(sim.OutcomeCompleted), maze, maze,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get algorithm stats: %w", err)
	}
	defer rows.Close()

	var stats []AlgorithmStats
	for rows.Next() {
		var a AlgorithmStats
		var last any
		if err := rows.Scan(&a.Maze, &a.Algorithm, &a.Trials, &a.Completed, &a.BestScore, &a.AvgScore, &a.AvgCoverage, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		a.LastFinished = parseTime(last)
		stats = append(stats, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and the string layouts sqlite returns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

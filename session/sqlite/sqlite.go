// Package sqlite persists interview sessions in a local SQLite database.
// Sessions survive process restarts, which is what lets an interview
// resume mid-stream after a crash or redeploy.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/careermesh/core"
)

// Store implements core.SessionStore on SQLite. The interview history is
// stored as a JSON column; the scalar fields that queries filter on get
// their own columns.
type Store struct {
	db *sql.DB
}

var _ core.SessionStore = (*Store)(nil)

// New opens (and if necessary creates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS interview_sessions (
		id TEXT PRIMARY KEY,
		target_role TEXT NOT NULL,
		target_company TEXT NOT NULL,
		history_json TEXT NOT NULL,
		question_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		score REAL,
		score_extracted INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		completed_at INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_interview_sessions_updated ON interview_sessions(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load retrieves one session by id.
func (s *Store) Load(ctx context.Context, id string) (*core.InterviewSession, error) {
	query := `
		SELECT id, target_role, target_company, history_json, question_count,
		       status, score, score_extracted, created_at, updated_at, completed_at
		FROM interview_sessions WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)

	var (
		sess        core.InterviewSession
		historyJSON string
		score       sql.NullFloat64
		extracted   int
		createdAt   int64
		updatedAt   int64
		completedAt sql.NullInt64
	)
	err := row.Scan(
		&sess.ID, &sess.TargetRole, &sess.TargetCompany, &historyJSON,
		&sess.QuestionCount, &sess.Status, &score, &extracted,
		&createdAt, &updatedAt, &completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	if err := json.Unmarshal([]byte(historyJSON), &sess.History); err != nil {
		return nil, fmt.Errorf("decode session history: %w", err)
	}
	if score.Valid {
		v := score.Float64
		sess.Score = &v
	}
	sess.ScoreExtracted = extracted != 0
	sess.Created = time.Unix(createdAt, 0).UTC()
	sess.Updated = time.Unix(updatedAt, 0).UTC()
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0).UTC()
		sess.CompletedAt = &t
	}

	return &sess, nil
}

// Save upserts the session record.
func (s *Store) Save(ctx context.Context, session *core.InterviewSession) error {
	history := session.History
	if history == nil {
		history = []core.Message{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode session history: %w", err)
	}

	var score sql.NullFloat64
	if session.Score != nil {
		score = sql.NullFloat64{Float64: *session.Score, Valid: true}
	}
	var completedAt sql.NullInt64
	if session.CompletedAt != nil {
		completedAt = sql.NullInt64{Int64: session.CompletedAt.Unix(), Valid: true}
	}
	extracted := 0
	if session.ScoreExtracted {
		extracted = 1
	}

	query := `
	INSERT INTO interview_sessions (
		id, target_role, target_company, history_json, question_count,
		status, score, score_extracted, created_at, updated_at, completed_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		target_role = excluded.target_role,
		target_company = excluded.target_company,
		history_json = excluded.history_json,
		question_count = excluded.question_count,
		status = excluded.status,
		score = excluded.score,
		score_extracted = excluded.score_extracted,
		updated_at = excluded.updated_at,
		completed_at = excluded.completed_at`

	_, err = s.db.ExecContext(ctx, query,
		session.ID, session.TargetRole, session.TargetCompany, string(historyJSON),
		session.QuestionCount, string(session.Status), score, extracted,
		session.Created.Unix(), session.Updated.Unix(), completedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM interview_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

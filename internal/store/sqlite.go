package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cewiley/NACCIT-Intake/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteArchive implements Archive using SQLite.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed archive.
func NewSQLite(dbPath string) (Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency. The _pragma
	// form applies to every connection in the pool.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
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

	archive := &SQLiteArchive{db: db}
	if err := archive.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return archive, nil
}

func (s *SQLiteArchive) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS escalations (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		issue_type TEXT NOT NULL,
		summary TEXT NOT NULL,
		reason TEXT NOT NULL,
		email_subject TEXT NOT NULL,
		email_body TEXT NOT NULL,
		jira_key TEXT,
		jira_error TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_escalations_created ON escalations(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteArchive) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Record persists one escalation record.
func (s *SQLiteArchive) Record(ctx context.Context, rec *domain.EscalationRecord) error {
	query := `
	INSERT INTO escalations (id, session_id, issue_type, summary, reason,
		email_subject, email_body, jira_key, jira_error, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var jiraKey, jiraErr interface{}
	if rec.JiraKey != "" {
		jiraKey = rec.JiraKey
	}
	if rec.JiraError != "" {
		jiraErr = rec.JiraError
	}

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.SessionID, rec.IssueType, rec.Summary, rec.Reason,
		rec.EmailSubject, rec.EmailBody, jiraKey, jiraErr,
		rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert escalation: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first.
func (s *SQLiteArchive) ListRecent(ctx context.Context, limit int) ([]*domain.EscalationRecord, error) {
	query := `
	SELECT id, session_id, issue_type, summary, reason,
	       email_subject, email_body, jira_key, jira_error, created_at
	FROM escalations ORDER BY created_at DESC, id LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query escalations: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close escalation rows", "error", closeErr)
		}
	}()

	var recs []*domain.EscalationRecord
	for rows.Next() {
		var rec domain.EscalationRecord
		var jiraKey, jiraErr sql.NullString
		var createdAt int64

		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.IssueType, &rec.Summary, &rec.Reason,
			&rec.EmailSubject, &rec.EmailBody, &jiraKey, &jiraErr, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan escalation row: %w", err)
		}

		rec.JiraKey = jiraKey.String
		rec.JiraError = jiraErr.String
		rec.CreatedAt = time.Unix(createdAt, 0)
		recs = append(recs, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate escalations: %w", err)
	}

	return recs, nil
}

// Close closes the database connection.
func (s *SQLiteArchive) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

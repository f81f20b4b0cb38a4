// Package store persists intake reports to Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/haven/internal/report"
)

// ErrNotFound is returned when no report exists for a session.
var ErrNotFound = errors.New("report not found")

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS intake_reports (
	id             UUID PRIMARY KEY,
	session_id     TEXT NOT NULL UNIQUE,
	fields         JSONB NOT NULL DEFAULT '{}'::jsonb,
	stage          TEXT NOT NULL,
	risk_level     TEXT NOT NULL,
	complex_trauma BOOLEAN NOT NULL DEFAULT false,
	turns          INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS intake_turns (
	id            UUID PRIMARY KEY,
	report_id     UUID NOT NULL REFERENCES intake_reports(id) ON DELETE CASCADE,
	response_id   TEXT NOT NULL,
	intent        TEXT NOT NULL,
	intent_source TEXT NOT NULL,
	risk_level    TEXT NOT NULL,
	rule          TEXT NOT NULL,
	field_names   TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Report is the persisted view of one session.
type Report struct {
	ID            uuid.UUID     `json:"id"`
	SessionID     string        `json:"session_id"`
	Fields        report.Fields `json:"fields"`
	Stage         string        `json:"stage"`
	RiskLevel     string        `json:"risk_level"`
	ComplexTrauma bool          `json:"complex_trauma"`
	Turns         int           `json:"turns"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TurnRecord is the metadata kept for each turn. It holds field names, never
// values or what was said.
type TurnRecord struct {
	ResponseID   string
	Intent       string
	IntentSource string
	RiskLevel    string
	Rule         string
	FieldNames   []string
}

// SaveTurn upserts the session's report and appends the turn record in one
// transaction. Values already stored win over incoming ones, matching the
// in-memory merge.
func (s *Store) SaveTurn(ctx context.Context, r Report, turn TurnRecord) (uuid.UUID, error) {
	if r.Fields == nil {
		r.Fields = report.Fields{}
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var reportID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO intake_reports (id, session_id, fields, stage, risk_level, complex_trauma, turns)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO UPDATE SET
			fields         = EXCLUDED.fields || intake_reports.fields,
			stage          = EXCLUDED.stage,
			risk_level     = EXCLUDED.risk_level,
			complex_trauma = intake_reports.complex_trauma OR EXCLUDED.complex_trauma,
			turns          = GREATEST(intake_reports.turns, EXCLUDED.turns),
			updated_at     = now()
		RETURNING id`,
		uuid.New(), r.SessionID, map[string]string(r.Fields), r.Stage, r.RiskLevel, r.ComplexTrauma, r.Turns,
	).Scan(&reportID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert report: %w", err)
	}

	fieldNames := turn.FieldNames
	if fieldNames == nil {
		fieldNames = []string{}
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO intake_turns (id, report_id, response_id, intent, intent_source, risk_level, rule, field_names)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), reportID, turn.ResponseID, turn.Intent, turn.IntentSource, turn.RiskLevel, turn.Rule, fieldNames,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert turn: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return reportID, nil
}

// GetReport loads the report for sessionID.
func (s *Store) GetReport(ctx context.Context, sessionID string) (*Report, error) {
	var (
		r      Report
		fields map[string]string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, session_id, fields, stage, risk_level, complex_trauma, turns, created_at, updated_at
		FROM intake_reports WHERE session_id = $1`,
		sessionID,
	).Scan(&r.ID, &r.SessionID, &fields, &r.Stage, &r.RiskLevel, &r.ComplexTrauma, &r.Turns, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	r.Fields = report.Fields(fields)
	return &r, nil
}

// CountTurns returns how many turns have been recorded for sessionID.
func (s *Store) CountTurns(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT count(t.id) FROM intake_turns t
		JOIN intake_reports r ON r.id = t.report_id
		WHERE r.session_id = $1`,
		sessionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count turns: %w", err)
	}
	return n, nil
}

// DeleteReport removes the report and its turns. Deleting an unknown session
// is not an error.
func (s *Store) DeleteReport(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM intake_reports WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

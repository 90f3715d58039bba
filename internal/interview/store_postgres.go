package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pitchlane/interview-platform/pkg/logging"
)

type pgxAPI interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists interview sessions as JSONB documents with the
// revision tracked in its own column so compare-and-swap is a plain
// conditional UPDATE.
type PostgresStore struct {
	db     pgxAPI
	logger *logging.Logger
}

var _ SessionStore = (*PostgresStore)(nil)

// NewPostgresStore builds a store on the provided pgx pool (or mock).
func NewPostgresStore(db pgxAPI, logger *logging.Logger) *PostgresStore {
	if db == nil {
		panic("interview: postgres pool cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PostgresStore{db: db, logger: logger}
}

// Get loads the session document.
func (s *PostgresStore) Get(ctx context.Context, sessionID string) (*InterviewSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionID required", ErrValidation)
	}

	var doc []byte
	var revision int64
	err := s.db.QueryRow(ctx,
		`SELECT doc, revision FROM interview_sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&doc, &revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: postgres get: %s", ErrStoreUnavailable, err)
	}

	var session InterviewSession
	if err := json.Unmarshal(doc, &session); err != nil {
		return nil, fmt.Errorf("interview: decode session: %w", err)
	}
	session.Revision = revision
	return &session, nil
}

// Put inserts a fresh session or updates an existing one, conditioned on
// the revision the caller read.
func (s *PostgresStore) Put(ctx context.Context, session *InterviewSession) error {
	if session == nil || session.SessionID == "" {
		return fmt.Errorf("%w: session required", ErrValidation)
	}

	expected := session.Revision
	session.Revision = expected + 1
	doc, err := json.Marshal(session)
	if err != nil {
		session.Revision = expected
		return fmt.Errorf("interview: marshal session: %w", err)
	}

	var tag pgconn.CommandTag
	if expected == 0 {
		tag, err = s.db.Exec(ctx,
			`INSERT INTO interview_sessions (session_id, status, revision, doc, updated_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 ON CONFLICT (session_id) DO NOTHING`,
			session.SessionID, string(session.Status), session.Revision, doc,
		)
	} else {
		tag, err = s.db.Exec(ctx,
			`UPDATE interview_sessions
			 SET status = $2, revision = $3, doc = $4, updated_at = NOW()
			 WHERE session_id = $1 AND revision = $5`,
			session.SessionID, string(session.Status), session.Revision, doc, expected,
		)
	}
	if err != nil {
		session.Revision = expected
		return fmt.Errorf("%w: postgres put: %s", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		session.Revision = expected
		return ErrRevisionConflict
	}
	return nil
}

// Delete removes the session row; deleting an absent row is not an error.
func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: sessionID required", ErrValidation)
	}
	if _, err := s.db.Exec(ctx,
		`DELETE FROM interview_sessions WHERE session_id = $1`,
		sessionID,
	); err != nil {
		return fmt.Errorf("%w: postgres delete: %s", ErrStoreUnavailable, err)
	}
	return nil
}

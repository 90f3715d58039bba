package interview

import (
	"context"
	"encoding/json"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(mock, nil)

	session := newActiveSession("sess-pg-1")
	doc, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT doc, revision FROM interview_sessions").
		WithArgs("sess-pg-1").
		WillReturnRows(pgxmock.NewRows([]string{"doc", "revision"}).AddRow(doc, int64(3)))

	loaded, err := store.Get(context.Background(), "sess-pg-1")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", loaded.FounderName)
	assert.Equal(t, int64(3), loaded.Revision)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(mock, nil)

	mock.ExpectQuery("SELECT doc, revision FROM interview_sessions").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPostgresStore_InsertNewSession(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(mock, nil)

	mock.ExpectExec("INSERT INTO interview_sessions").
		WithArgs("sess-pg-1", "active", int64(1), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	session := newActiveSession("sess-pg-1")
	require.NoError(t, store.Put(context.Background(), session))
	assert.Equal(t, int64(1), session.Revision)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(mock, nil)

	// ON CONFLICT DO NOTHING reports zero affected rows when the ID exists.
	mock.ExpectExec("INSERT INTO interview_sessions").
		WithArgs("sess-pg-1", "active", int64(1), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	session := newActiveSession("sess-pg-1")
	err = store.Put(context.Background(), session)
	assert.ErrorIs(t, err, ErrRevisionConflict)
	assert.Equal(t, int64(0), session.Revision)
}

func TestPostgresStore_UpdateWithRevisionCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(mock, nil)

	mock.ExpectExec("UPDATE interview_sessions").
		WithArgs("sess-pg-1", "completed", int64(3), pgxmock.AnyArg(), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	session := newActiveSession("sess-pg-1")
	session.Status = StatusCompleted
	session.Revision = 2
	require.NoError(t, store.Put(context.Background(), session))
	assert.Equal(t, int64(3), session.Revision)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(mock, nil)

	mock.ExpectExec("UPDATE interview_sessions").
		WithArgs("sess-pg-1", "active", int64(3), pgxmock.AnyArg(), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	session := newActiveSession("sess-pg-1")
	session.Revision = 2
	err = store.Put(context.Background(), session)
	assert.ErrorIs(t, err, ErrRevisionConflict)
	assert.Equal(t, int64(2), session.Revision)
}

func TestPostgresStore_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewPostgresStore(mock, nil)

	mock.ExpectExec("DELETE FROM interview_sessions").
		WithArgs("sess-pg-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, store.Delete(context.Background(), "sess-pg-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

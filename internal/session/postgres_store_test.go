package session

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	updatedAt := time.Now().UTC().Add(-time.Hour)
	snoozed := time.Now().UTC().Add(20 * time.Minute)
	mock.ExpectQuery("SELECT history, snoozed_until, last_updated_at").
		WithArgs("5511999999999").
		WillReturnRows(pgxmock.NewRows([]string{"history", "snoozed_until", "last_updated_at"}).
			AddRow([]byte(`[{"role":"user","content":"oi"},{"role":"assistant","content":"olá"}]`), &snoozed, updatedAt))

	store := NewPostgresStoreWithQuerier(mock)
	sess, err := store.Get(context.Background(), "5511999999999")
	require.NoError(t, err)

	assert.Equal(t, "5511999999999", sess.ContactID)
	assert.Len(t, sess.History, 2)
	assert.Equal(t, "oi", sess.History[0].Content)
	assert.Equal(t, updatedAt, sess.LastUpdatedAt)
	require.NotNil(t, sess.SnoozedUntil)
	assert.True(t, sess.SnoozedUntil.Equal(snoozed))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGet_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT history, snoozed_until, last_updated_at").
		WithArgs("5511000000000").
		WillReturnError(pgx.ErrNoRows)

	store := NewPostgresStoreWithQuerier(mock)
	_, err = store.Get(context.Background(), "5511000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStoreUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("5511999999999", pgxmock.AnyArg(), (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStoreWithQuerier(mock)
	history := []Entry{{Role: "user", Content: "oi"}, {Role: "assistant", Content: "olá"}}
	require.NoError(t, store.Upsert(context.Background(), "5511999999999", history, nil))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreUpsert_NilHistoryWritesEmptyArray(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("5511999999999", []byte("[]"), (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStoreWithQuerier(mock)
	require.NoError(t, store.Upsert(context.Background(), "5511999999999", nil, nil))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSnooze(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	until := time.Now().UTC().Add(30 * time.Minute)
	mock.ExpectExec("INSERT INTO sessions").
		WithArgs("5511999999999", until).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStoreWithQuerier(mock)
	require.NoError(t, store.Snooze(context.Background(), "5511999999999", until))

	assert.NoError(t, mock.ExpectationsWereMet())
}

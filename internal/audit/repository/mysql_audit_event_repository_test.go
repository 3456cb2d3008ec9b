package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
)

func newMySQLMock(t *testing.T) (*MySQLAuditEventRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewMySQLAuditEventRepository(db), mock
}

func mustMarshalUUID(t *testing.T, id uuid.UUID) []byte {
	t.Helper()

	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLAuditEventRepository_CreateHead(t *testing.T) {
	repo, mock := newMySQLMock(t)
	tenantID := uuid.Must(uuid.NewV7())
	genesis := make([]byte, auditDomain.HashSize)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_chain_heads")).
		WithArgs(mustMarshalUUID(t, tenantID), genesis).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateHead(context.Background(), tenantID, genesis)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAuditEventRepository_GetTailForUpdate(t *testing.T) {
	repo, mock := newMySQLMock(t)
	tenantID := uuid.Must(uuid.NewV7())
	tailHash := []byte("tail-hash-bytes")

	t.Run("success with binary uuid roundtrip", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"tenant_id", "tail_sequence", "tail_hash"}).
			AddRow(mustMarshalUUID(t, tenantID), uint64(4), tailHash)
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(mustMarshalUUID(t, tenantID)).
			WillReturnRows(rows)

		tail, err := repo.GetTailForUpdate(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, tenantID, tail.TenantID)
		assert.Equal(t, uint64(4), tail.Sequence)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(mustMarshalUUID(t, tenantID)).
			WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "tail_sequence", "tail_hash"}))

		tail, err := repo.GetTailForUpdate(context.Background(), tenantID)
		assert.Nil(t, tail)
		assert.ErrorIs(t, err, auditDomain.ErrChainNotFound)
	})
}

func TestMySQLAuditEventRepository_Append(t *testing.T) {
	repo, mock := newMySQLMock(t)
	event := testEvent(t)
	dataJSON, err := json.Marshal(event.Data)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_events")).
			WithArgs(
				mustMarshalUUID(t, event.ID),
				mustMarshalUUID(t, event.TenantID),
				event.Sequence,
				event.EventType,
				event.Actor,
				dataJSON,
				event.PrevHash,
				event.CurrentHash,
				event.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Append(context.Background(), event)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate entry maps to fork", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_events")).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry for key 'audit_events.tenant_sequence'"))

		err := repo.Append(context.Background(), event)
		assert.ErrorIs(t, err, auditDomain.ErrChainForked)
	})
}

func TestMySQLAuditEventRepository_List(t *testing.T) {
	repo, mock := newMySQLMock(t)
	event := testEvent(t)
	dataJSON, err := json.Marshal(event.Data)
	require.NoError(t, err)

	t.Run("with time filters", func(t *testing.T) {
		from := time.Now().UTC().Add(-time.Hour)
		to := time.Now().UTC()

		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "sequence", "event_type", "actor", "data", "prev_hash", "current_hash", "created_at",
		}).AddRow(
			mustMarshalUUID(t, event.ID), mustMarshalUUID(t, event.TenantID),
			event.Sequence, event.EventType, event.Actor,
			dataJSON, event.PrevHash, event.CurrentHash, event.CreatedAt,
		)
		mock.ExpectQuery(regexp.QuoteMeta("created_at >= ?")).
			WithArgs(mustMarshalUUID(t, event.TenantID), from, to, 20, 0).
			WillReturnRows(rows)

		events, err := repo.List(context.Background(), event.TenantID, 0, 20, &from, &to)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, event.ID, events[0].ID)
		assert.Equal(t, event.TenantID, events[0].TenantID)
	})
}

func TestMySQLAuditEventRepository_DeleteThrough(t *testing.T) {
	repo, mock := newMySQLMock(t)
	tenantID := uuid.Must(uuid.NewV7())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM audit_events")).
		WithArgs(mustMarshalUUID(t, tenantID), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 5))

	removed, err := repo.DeleteThrough(context.Background(), tenantID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentDomain "github.com/ledgerlock/ledgerlock/internal/content/domain"
)

func newMySQLMock(t *testing.T) (*MySQLFieldRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewMySQLFieldRepository(db), mock
}

func mustMarshalUUID(t *testing.T, id uuid.UUID) []byte {
	t.Helper()

	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLFieldRepository_Upsert(t *testing.T) {
	repo, mock := newMySQLMock(t)
	field := testField(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO encrypted_fields")).
		WithArgs(
			mustMarshalUUID(t, field.ID),
			mustMarshalUUID(t, field.TenantID),
			mustMarshalUUID(t, field.EntityID),
			field.FieldName,
			field.Envelope.Ciphertext,
			field.Envelope.Nonce,
			field.Envelope.Tag,
			field.CreatedAt,
			field.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), field)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLFieldRepository_Get(t *testing.T) {
	columns := []string{
		"id", "tenant_id", "entity_id", "field_name",
		"ciphertext", "nonce", "tag", "created_at", "updated_at",
	}

	t.Run("success", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		field := testField(t)

		rows := sqlmock.NewRows(columns).AddRow(
			mustMarshalUUID(t, field.ID),
			mustMarshalUUID(t, field.TenantID),
			mustMarshalUUID(t, field.EntityID),
			field.FieldName,
			field.Envelope.Ciphertext, field.Envelope.Nonce, field.Envelope.Tag,
			field.CreatedAt, field.UpdatedAt,
		)
		mock.ExpectQuery(regexp.QuoteMeta("FROM encrypted_fields")).
			WithArgs(
				mustMarshalUUID(t, field.TenantID),
				mustMarshalUUID(t, field.EntityID),
				field.FieldName,
			).
			WillReturnRows(rows)

		got, err := repo.Get(context.Background(), field.TenantID, field.EntityID, field.FieldName)
		require.NoError(t, err)
		assert.Equal(t, field.ID, got.ID)
		assert.Equal(t, field.TenantID, got.TenantID)
		assert.Equal(t, field.EntityID, got.EntityID)
		assert.Equal(t, field.Envelope, got.Envelope)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMySQLMock(t)
		field := testField(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM encrypted_fields")).
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := repo.Get(context.Background(), field.TenantID, field.EntityID, field.FieldName)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, contentDomain.ErrFieldNotFound)
	})
}

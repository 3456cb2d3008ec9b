package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	auditUsecaseMocks "github.com/ledgerlock/ledgerlock/internal/audit/usecase/mocks"
	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	cryptoServiceMocks "github.com/ledgerlock/ledgerlock/internal/crypto/service/mocks"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
	sessionDomain "github.com/ledgerlock/ledgerlock/internal/session/domain"
	sessionService "github.com/ledgerlock/ledgerlock/internal/session/service"
	sessionServiceMocks "github.com/ledgerlock/ledgerlock/internal/session/service/mocks"
	tenantDomain "github.com/ledgerlock/ledgerlock/internal/tenant/domain"
	tenantUsecaseMocks "github.com/ledgerlock/ledgerlock/internal/tenant/usecase/mocks"
)

type sessionUseCaseMocks struct {
	tenantRepo      *tenantUsecaseMocks.MockTenantRepository
	keyDeriver      *cryptoServiceMocks.MockKeyDeriver
	keyManager      *cryptoServiceMocks.MockKeyManager
	envelopeWrapper *cryptoServiceMocks.MockEnvelopeWrapper
	cache           *sessionServiceMocks.MockKeyCache
	auditUC         *auditUsecaseMocks.MockAuditUseCase
}

func newSessionUseCase(t *testing.T) (SessionUseCase, *sessionUseCaseMocks) {
	t.Helper()

	m := &sessionUseCaseMocks{
		tenantRepo:      &tenantUsecaseMocks.MockTenantRepository{},
		keyDeriver:      &cryptoServiceMocks.MockKeyDeriver{},
		keyManager:      &cryptoServiceMocks.MockKeyManager{},
		envelopeWrapper: &cryptoServiceMocks.MockEnvelopeWrapper{},
		cache:           &sessionServiceMocks.MockKeyCache{},
		auditUC:         &auditUsecaseMocks.MockAuditUseCase{},
	}
	uc := NewSessionUseCase(
		m.tenantRepo, m.keyDeriver, m.keyManager, m.envelopeWrapper, m.cache, m.auditUC,
	)
	return uc, m
}

const validPassphrase = "correct horse battery staple"

func sessionTenant() *tenantDomain.Tenant {
	return &tenantDomain.Tenant{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        "acme",
		Algorithm:   cryptoDomain.XChaCha20,
		KDFSalt:     []byte("0123456789abcdef"),
		CostVersion: cryptoDomain.CostParamsVersion1,
		WrappedDek: cryptoDomain.Envelope{
			Ciphertext: []byte("wrapped"), Nonce: []byte("nonce"), Tag: []byte("tag"),
		},
	}
}

func TestSessionUseCase_Unlock(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		uc, m := newSessionUseCase(t)
		tenant := sessionTenant()

		kek := []byte("kek-material")
		dek := []byte("dek-material")
		status := &sessionDomain.SessionStatus{
			SessionID:  "session-1",
			TenantID:   tenant.ID,
			UnlockedAt: time.Now().UTC(),
			ExpiresAt:  time.Now().UTC().Add(time.Hour),
			DekCached:  true,
		}

		m.tenantRepo.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil).Once()
		m.cache.On("Unlock", mock.Anything, "session-1", tenant.ID, mock.Anything).
			Return(nil, nil).Once()
		m.keyDeriver.On("Derive", mock.Anything, validPassphrase, tenant.KDFSalt).
			Return(kek, nil).Once()
		m.envelopeWrapper.On("UnwrapFromStorage", mock.Anything, tenant.WrappedDek).
			Return(tenant.WrappedDek, nil).Once()
		m.keyManager.On("UnwrapDek", kek, tenant.WrappedDek, tenant.ID).Return(dek, nil).Once()
		m.cache.On("PutDek", tenant.ID, dek).Return().Once()
		m.auditUC.On("Record", mock.Anything, tenant.ID, auditDomain.EventSessionUnlocked, "api",
			mock.MatchedBy(func(data auditDomain.EventData) bool {
				return data.Attrs["session_id"] == "session-1"
			})).Return(&auditDomain.AuditEvent{}, nil).Once()
		m.cache.On("Status", "session-1").Return(status, nil).Once()

		got, err := uc.Unlock(ctx, UnlockInput{
			SessionID:  "session-1",
			TenantID:   tenant.ID,
			Passphrase: validPassphrase,
			Actor:      "api",
		})
		require.NoError(t, err)
		assert.Equal(t, status, got)
		m.cache.AssertExpectations(t)
		m.auditUC.AssertExpectations(t)
	})

	t.Run("wrong passphrase is audited and nothing is cached", func(t *testing.T) {
		uc, m := newSessionUseCase(t)
		tenant := sessionTenant()
		kek := []byte("wrong-kek-material")

		m.tenantRepo.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil).Once()
		m.cache.On("Unlock", mock.Anything, "session-1", tenant.ID, mock.Anything).
			Return(nil, nil).Once()
		m.keyDeriver.On("Derive", mock.Anything, mock.Anything, mock.Anything).
			Return(kek, nil).Once()
		m.envelopeWrapper.On("UnwrapFromStorage", mock.Anything, mock.Anything).
			Return(tenant.WrappedDek, nil).Once()
		m.keyManager.On("UnwrapDek", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, cryptoDomain.ErrAuthFailure).Once()
		m.auditUC.On("Record", mock.Anything, tenant.ID, auditDomain.EventUnlockFailed, "api",
			mock.Anything).Return(&auditDomain.AuditEvent{}, nil).Once()

		_, err := uc.Unlock(ctx, UnlockInput{
			SessionID:  "session-1",
			TenantID:   tenant.ID,
			Passphrase: "wrong but long enough pass",
			Actor:      "api",
		})
		assert.ErrorIs(t, err, apperrors.ErrAuthFailure)

		// The unwrap failed inside the flight, so the KEK never reached the
		// cache and there is nothing to evict.
		m.cache.AssertNotCalled(t, "PutDek", mock.Anything, mock.Anything)
		m.cache.AssertNotCalled(t, "EvictSession", mock.Anything)
		assert.Equal(t, make([]byte, len(kek)), kek)
		m.cache.AssertExpectations(t)
		m.auditUC.AssertExpectations(t)
	})

	t.Run("failed unlock never reports the session as unlocked", func(t *testing.T) {
		uc, m := newSessionUseCase(t)
		tenant := sessionTenant()
		cache := sessionService.NewKeyCache(time.Hour, time.Minute)
		uc = NewSessionUseCase(
			m.tenantRepo, m.keyDeriver, m.keyManager, m.envelopeWrapper, cache, m.auditUC,
		)

		m.tenantRepo.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil).Once()
		m.keyDeriver.On("Derive", mock.Anything, mock.Anything, mock.Anything).
			Return([]byte("wrong-kek-material"), nil).Once()
		m.envelopeWrapper.On("UnwrapFromStorage", mock.Anything, mock.Anything).
			Return(tenant.WrappedDek, nil).Once()
		m.keyManager.On("UnwrapDek", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, cryptoDomain.ErrAuthFailure).Once()
		m.auditUC.On("Record", mock.Anything, tenant.ID, auditDomain.EventUnlockFailed,
			mock.Anything, mock.Anything).Return(&auditDomain.AuditEvent{}, nil).Once()

		_, err := uc.Unlock(ctx, UnlockInput{
			SessionID:  "session-1",
			TenantID:   tenant.ID,
			Passphrase: "wrong but long enough pass",
		})
		require.ErrorIs(t, err, apperrors.ErrAuthFailure)

		_, err = uc.Status(ctx, "session-1")
		assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		uc, m := newSessionUseCase(t)
		tenantID := uuid.Must(uuid.NewV7())

		m.tenantRepo.On("GetByID", mock.Anything, tenantID).
			Return(nil, tenantDomain.ErrTenantNotFound).Once()

		_, err := uc.Unlock(ctx, UnlockInput{
			SessionID:  "session-1",
			TenantID:   tenantID,
			Passphrase: validPassphrase,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		m.keyDeriver.AssertNotCalled(t, "Derive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("audit append failure evicts the session", func(t *testing.T) {
		uc, m := newSessionUseCase(t)
		tenant := sessionTenant()

		m.tenantRepo.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil).Once()
		m.cache.On("Unlock", mock.Anything, "session-1", tenant.ID, mock.Anything).
			Return(nil, nil).Once()
		m.keyDeriver.On("Derive", mock.Anything, mock.Anything, mock.Anything).
			Return([]byte("kek"), nil).Once()
		m.envelopeWrapper.On("UnwrapFromStorage", mock.Anything, mock.Anything).
			Return(tenant.WrappedDek, nil).Once()
		m.keyManager.On("UnwrapDek", mock.Anything, mock.Anything, mock.Anything).
			Return([]byte("dek"), nil).Once()
		m.cache.On("PutDek", tenant.ID, mock.Anything).Return().Once()
		m.auditUC.On("Record", mock.Anything, tenant.ID, auditDomain.EventSessionUnlocked,
			mock.Anything, mock.Anything).Return(nil, apperrors.ErrChainForked).Once()
		m.cache.On("EvictSession", "session-1").Return().Once()

		_, err := uc.Unlock(ctx, UnlockInput{
			SessionID:  "session-1",
			TenantID:   tenant.ID,
			Passphrase: validPassphrase,
		})
		assert.ErrorIs(t, err, apperrors.ErrChainForked)
		m.cache.AssertExpectations(t)
	})

	t.Run("validation failures", func(t *testing.T) {
		uc, m := newSessionUseCase(t)

		tests := []struct {
			name  string
			input UnlockInput
		}{
			{"blank session id", UnlockInput{SessionID: "  ", TenantID: uuid.Must(uuid.NewV7()), Passphrase: validPassphrase}},
			{"missing tenant id", UnlockInput{SessionID: "session-1", Passphrase: validPassphrase}},
			{"short passphrase", UnlockInput{SessionID: "session-1", TenantID: uuid.Must(uuid.NewV7()), Passphrase: "too short"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := uc.Unlock(ctx, tt.input)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			})
		}
		m.tenantRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestSessionUseCase_Status(t *testing.T) {
	uc, m := newSessionUseCase(t)

	m.cache.On("Status", "session-1").Return(nil, apperrors.ErrSessionExpired).Once()

	_, err := uc.Status(context.Background(), "session-1")
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
}

func TestSessionUseCase_Lock(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts and audits", func(t *testing.T) {
		uc, m := newSessionUseCase(t)
		tenantID := uuid.Must(uuid.NewV7())

		m.cache.On("Status", "session-1").Return(&sessionDomain.SessionStatus{
			SessionID: "session-1",
			TenantID:  tenantID,
		}, nil).Once()
		m.cache.On("EvictSession", "session-1").Return().Once()
		m.auditUC.On("Record", mock.Anything, tenantID, auditDomain.EventSessionLocked, "api",
			mock.Anything).Return(&auditDomain.AuditEvent{}, nil).Once()

		require.NoError(t, uc.Lock(ctx, "session-1", "api"))
		m.cache.AssertExpectations(t)
		m.auditUC.AssertExpectations(t)
	})

	t.Run("locking an expired session is a no-op", func(t *testing.T) {
		uc, m := newSessionUseCase(t)

		m.cache.On("Status", "session-1").Return(nil, apperrors.ErrSessionExpired).Once()

		require.NoError(t, uc.Lock(ctx, "session-1", "api"))
		m.cache.AssertNotCalled(t, "EvictSession", mock.Anything)
	})
}

func TestSessionUseCase_TenantDek(t *testing.T) {
	ctx := context.Background()

	t.Run("re-unwraps from cached kek on dek miss", func(t *testing.T) {
		uc, m := newSessionUseCase(t)
		tenant := sessionTenant()
		kek := []byte("kek-material")
		dek := []byte("dek-material")

		m.cache.On("SessionKek", "session-1").Return(kek, tenant.ID, nil).Once()
		m.cache.On("GetOrUnwrapDek", mock.Anything, tenant.ID, mock.Anything).
			Return(nil, nil).Once()
		m.tenantRepo.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil).Once()
		m.envelopeWrapper.On("UnwrapFromStorage", mock.Anything, tenant.WrappedDek).
			Return(tenant.WrappedDek, nil).Once()
		m.keyManager.On("UnwrapDek", kek, tenant.WrappedDek, tenant.ID).Return(dek, nil).Once()

		gotDek, gotTenant, err := uc.TenantDek(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, dek, gotDek)
		assert.Equal(t, tenant.ID, gotTenant)
	})

	t.Run("cached dek skips the repository", func(t *testing.T) {
		uc, m := newSessionUseCase(t)
		tenantID := uuid.Must(uuid.NewV7())
		dek := []byte("dek-material")

		m.cache.On("SessionKek", "session-1").Return([]byte("kek"), tenantID, nil).Once()
		m.cache.On("GetOrUnwrapDek", mock.Anything, tenantID, mock.Anything).
			Return(dek, nil).Once()

		gotDek, _, err := uc.TenantDek(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, dek, gotDek)
		m.tenantRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("expired session", func(t *testing.T) {
		uc, m := newSessionUseCase(t)

		m.cache.On("SessionKek", "session-1").
			Return(nil, uuid.Nil, apperrors.ErrSessionExpired).Once()

		_, _, err := uc.TenantDek(ctx, "session-1")
		assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	})
}

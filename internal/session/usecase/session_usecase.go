package usecase

import (
	"context"
	"log/slog"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	auditUsecase "github.com/ledgerlock/ledgerlock/internal/audit/usecase"
	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	cryptoService "github.com/ledgerlock/ledgerlock/internal/crypto/service"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
	sessionDomain "github.com/ledgerlock/ledgerlock/internal/session/domain"
	sessionService "github.com/ledgerlock/ledgerlock/internal/session/service"
	tenantDomain "github.com/ledgerlock/ledgerlock/internal/tenant/domain"
	tenantUsecase "github.com/ledgerlock/ledgerlock/internal/tenant/usecase"
	appValidation "github.com/ledgerlock/ledgerlock/internal/validation"
)

// sessionUseCase implements the SessionUseCase interface.
type sessionUseCase struct {
	tenantRepo      tenantUsecase.TenantRepository
	keyDeriver      cryptoService.KeyDeriver
	keyManager      cryptoService.KeyManager
	envelopeWrapper cryptoService.EnvelopeWrapper
	cache           sessionService.KeyCache
	auditUC         auditUsecase.AuditUseCase
}

// validateUnlockInput validates session unlock input.
func (s *sessionUseCase) validateUnlockInput(input UnlockInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.SessionID,
			validation.Required.Error("session_id is required"),
			appValidation.NotBlank,
		),
		validation.Field(&input.Passphrase,
			validation.Required.Error("passphrase is required"),
			appValidation.Passphrase,
		),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	if input.TenantID == uuid.Nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "tenant_id is required")
	}
	return nil
}

// Unlock derives the session KEK and proves the passphrase by unwrapping the
// tenant DEK.
func (s *sessionUseCase) Unlock(
	ctx context.Context,
	input UnlockInput,
) (*sessionDomain.SessionStatus, error) {
	if err := s.validateUnlockInput(input); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.GetByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	// The passphrase is proven before the KEK is published: the derived key
	// must unwrap the tenant DEK inside the flight, so a concurrent Status
	// never observes a session unlocked by a wrong passphrase.
	kek, err := s.cache.Unlock(ctx, input.SessionID, tenant.ID, func(ctx context.Context) ([]byte, error) {
		kek, err := s.keyDeriver.Derive(ctx, input.Passphrase, tenant.KDFSalt)
		if err != nil {
			return nil, err
		}

		dek, err := s.unwrapTenantDek(ctx, kek, tenant)
		if err != nil {
			cryptoDomain.Zero(kek)
			return nil, err
		}
		s.cache.PutDek(tenant.ID, dek)

		return kek, nil
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrAuthFailure) {
			s.recordBestEffort(ctx, tenant.ID, auditDomain.EventUnlockFailed, input.Actor,
				auditDomain.SessionData(input.SessionID))
		}
		return nil, err
	}
	cryptoDomain.Zero(kek)

	_, err = s.auditUC.Record(ctx, tenant.ID, auditDomain.EventSessionUnlocked, input.Actor,
		auditDomain.SessionData(input.SessionID))
	if err != nil {
		s.cache.EvictSession(input.SessionID)
		return nil, err
	}

	return s.cache.Status(input.SessionID)
}

// Status reports the state of an unlocked session.
func (s *sessionUseCase) Status(
	ctx context.Context,
	sessionID string,
) (*sessionDomain.SessionStatus, error) {
	return s.cache.Status(sessionID)
}

// Lock evicts the session's key material.
func (s *sessionUseCase) Lock(ctx context.Context, sessionID, actor string) error {
	status, err := s.cache.Status(sessionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionExpired) {
			return nil
		}
		return err
	}

	s.cache.EvictSession(sessionID)
	s.recordBestEffort(ctx, status.TenantID, auditDomain.EventSessionLocked, actor,
		auditDomain.SessionData(sessionID))
	return nil
}

// TenantDek returns the plaintext DEK for the session's tenant.
func (s *sessionUseCase) TenantDek(
	ctx context.Context,
	sessionID string,
) ([]byte, uuid.UUID, error) {
	kek, tenantID, err := s.cache.SessionKek(sessionID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	defer cryptoDomain.Zero(kek)

	dek, err := s.cache.GetOrUnwrapDek(ctx, tenantID, func(ctx context.Context) ([]byte, error) {
		tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		return s.unwrapTenantDek(ctx, kek, tenant)
	})
	if err != nil {
		return nil, uuid.Nil, err
	}
	return dek, tenantID, nil
}

// unwrapTenantDek removes the optional deployment-KMS outer wrap and opens
// the wrapped-DEK envelope with the given KEK.
func (s *sessionUseCase) unwrapTenantDek(
	ctx context.Context,
	kek []byte,
	tenant *tenantDomain.Tenant,
) ([]byte, error) {
	wrapped, err := s.envelopeWrapper.UnwrapFromStorage(ctx, tenant.WrappedDek)
	if err != nil {
		return nil, err
	}
	return s.keyManager.UnwrapDek(kek, wrapped, tenant.ID)
}

// recordBestEffort appends an audit event without letting an append failure
// change the outcome of a session operation that mutates no persistent state.
func (s *sessionUseCase) recordBestEffort(
	ctx context.Context,
	tenantID uuid.UUID,
	eventType, actor string,
	data auditDomain.EventData,
) {
	if _, err := s.auditUC.Record(ctx, tenantID, eventType, actor, data); err != nil {
		slog.ErrorContext(ctx, "failed to record session audit event",
			"tenant_id", tenantID.String(),
			"event_type", eventType,
			"error", err,
		)
	}
}

// NewSessionUseCase creates a new session use case instance with the provided dependencies.
func NewSessionUseCase(
	tenantRepo tenantUsecase.TenantRepository,
	keyDeriver cryptoService.KeyDeriver,
	keyManager cryptoService.KeyManager,
	envelopeWrapper cryptoService.EnvelopeWrapper,
	cache sessionService.KeyCache,
	auditUC auditUsecase.AuditUseCase,
) SessionUseCase {
	return &sessionUseCase{
		tenantRepo:      tenantRepo,
		keyDeriver:      keyDeriver,
		keyManager:      keyManager,
		envelopeWrapper: envelopeWrapper,
		cache:           cache,
		auditUC:         auditUC,
	}
}

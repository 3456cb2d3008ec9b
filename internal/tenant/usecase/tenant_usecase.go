// Package usecase implements tenant lifecycle orchestration between the
// cryptographic services, tenant persistence, and the audit chain.
package usecase

import (
	"context"
	"crypto/rand"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	auditUsecase "github.com/ledgerlock/ledgerlock/internal/audit/usecase"
	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	cryptoService "github.com/ledgerlock/ledgerlock/internal/crypto/service"
	"github.com/ledgerlock/ledgerlock/internal/database"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
	tenantDomain "github.com/ledgerlock/ledgerlock/internal/tenant/domain"
	tenantService "github.com/ledgerlock/ledgerlock/internal/tenant/service"
	appValidation "github.com/ledgerlock/ledgerlock/internal/validation"
)

// tenantUseCase implements the TenantUseCase interface.
type tenantUseCase struct {
	txManager       database.TxManager
	tenantRepo      TenantRepository
	keyDeriver      cryptoService.KeyDeriver
	keyManager      cryptoService.KeyManager
	envelopeWrapper cryptoService.EnvelopeWrapper
	recoveryCodes   tenantService.RecoveryCodeService
	auditUC         auditUsecase.AuditUseCase
	dekEvictor      DekEvictor
	algorithm       cryptoDomain.Algorithm
	costParams      cryptoDomain.CostParams
}

// validateCreateInput validates tenant creation input.
func (t *tenantUseCase) validateCreateInput(input CreateTenantInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Passphrase,
			validation.Required.Error("passphrase is required"),
			appValidation.Passphrase,
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create provisions a new tenant key hierarchy.
func (t *tenantUseCase) Create(
	ctx context.Context,
	input CreateTenantInput,
) (*CreateTenantOutput, error) {
	if err := t.validateCreateInput(input); err != nil {
		return nil, err
	}

	tenantID := uuid.Must(uuid.NewV7())

	// Generate the tenant DEK. It exists in plaintext only inside this call.
	dek, err := t.keyManager.GenerateDek()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dek)

	wrapped, kdfSalt, err := t.wrapUnderPassphrase(ctx, input.Passphrase, dek, tenantID)
	if err != nil {
		return nil, err
	}

	recoveryCode, recoveryHash, err := t.recoveryCodes.Generate()
	if err != nil {
		return nil, err
	}

	recoveryWrapped, recoverySalt, err := t.wrapUnderPassphrase(ctx, recoveryCode, dek, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tenant := &tenantDomain.Tenant{
		ID:                 tenantID,
		Name:               input.Name,
		Algorithm:          t.algorithm,
		KDFSalt:            kdfSalt,
		CostVersion:        t.costParams.Version,
		WrappedDek:         wrapped,
		RecoverySalt:       recoverySalt,
		RecoveryWrappedDek: recoveryWrapped,
		RecoveryHash:       recoveryHash,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = t.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := t.tenantRepo.Create(txCtx, tenant); err != nil {
			return err
		}
		if err := t.auditUC.InitChain(txCtx, tenant.ID); err != nil {
			return err
		}
		_, err := t.auditUC.Record(
			txCtx,
			tenant.ID,
			auditDomain.EventTenantCreated,
			input.Actor,
			auditDomain.EventData{Attrs: map[string]string{"name": tenant.Name}},
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CreateTenantOutput{Tenant: tenant, RecoveryCode: recoveryCode}, nil
}

// Get retrieves a tenant by id.
func (t *tenantUseCase) Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error) {
	return t.tenantRepo.GetByID(ctx, tenantID)
}

// RotatePassphrase re-wraps the tenant DEK under a new passphrase.
func (t *tenantUseCase) RotatePassphrase(
	ctx context.Context,
	input RotatePassphraseInput,
) (*RotatePassphraseOutput, error) {
	if err := t.validateRotateInput(input); err != nil {
		return nil, err
	}

	tenant, err := t.tenantRepo.GetByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	dek, method, err := t.recoverDek(ctx, tenant, input)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dek)

	wrapped, kdfSalt, err := t.wrapUnderPassphrase(ctx, input.NewPassphrase, dek, tenant.ID)
	if err != nil {
		return nil, err
	}

	// The old recovery code proved access to the old wrapping; it does not
	// survive the rotation.
	recoveryCode, recoveryHash, err := t.recoveryCodes.Generate()
	if err != nil {
		return nil, err
	}

	recoveryWrapped, recoverySalt, err := t.wrapUnderPassphrase(ctx, recoveryCode, dek, tenant.ID)
	if err != nil {
		return nil, err
	}

	tenant.KDFSalt = kdfSalt
	tenant.CostVersion = t.costParams.Version
	tenant.WrappedDek = wrapped
	tenant.RecoverySalt = recoverySalt
	tenant.RecoveryWrappedDek = recoveryWrapped
	tenant.RecoveryHash = recoveryHash
	tenant.UpdatedAt = time.Now().UTC()

	err = t.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := t.tenantRepo.UpdateWrapping(txCtx, tenant); err != nil {
			return err
		}
		_, err := t.auditUC.Record(
			txCtx,
			tenant.ID,
			auditDomain.EventPassphraseRotated,
			input.Actor,
			auditDomain.PassphraseRotatedData(method),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	if t.dekEvictor != nil {
		t.dekEvictor.EvictTenantDek(tenant.ID)
	}

	return &RotatePassphraseOutput{RecoveryCode: recoveryCode}, nil
}

// validateRotateInput validates passphrase rotation input.
func (t *tenantUseCase) validateRotateInput(input RotatePassphraseInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.NewPassphrase,
			validation.Required.Error("new passphrase is required"),
			appValidation.Passphrase,
		),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	hasPassphrase := input.CurrentPassphrase != ""
	hasRecovery := input.RecoveryCode != ""
	if hasPassphrase == hasRecovery {
		return apperrors.Wrap(
			apperrors.ErrInvalidInput,
			"exactly one of current passphrase and recovery code must be provided",
		)
	}

	return nil
}

// recoverDek obtains the plaintext DEK using either the current passphrase or
// the recovery code. Returns the rotation method for the audit record. Every
// failure to prove access surfaces as ErrAuthFailure.
func (t *tenantUseCase) recoverDek(
	ctx context.Context,
	tenant *tenantDomain.Tenant,
	input RotatePassphraseInput,
) ([]byte, string, error) {
	if input.CurrentPassphrase != "" {
		dek, err := t.unwrapWithPassphrase(
			ctx, input.CurrentPassphrase, tenant.KDFSalt, tenant.WrappedDek, tenant.ID,
		)
		if err != nil {
			return nil, "", err
		}
		return dek, tenantDomain.RecoveryMethodPassphrase, nil
	}

	// Check the code hash first so a wrong code and a tampered recovery
	// envelope are reported the same way.
	if !t.recoveryCodes.Compare(input.RecoveryCode, tenant.RecoveryHash) {
		return nil, "", apperrors.ErrAuthFailure
	}

	dek, err := t.unwrapWithPassphrase(
		ctx, input.RecoveryCode, tenant.RecoverySalt, tenant.RecoveryWrappedDek, tenant.ID,
	)
	if err != nil {
		return nil, "", err
	}
	return dek, tenantDomain.RecoveryMethodRecoveryCode, nil
}

// wrapUnderPassphrase derives a KEK from the passphrase with a fresh salt and
// wraps the DEK under it, applying the optional deployment-KMS outer wrap.
func (t *tenantUseCase) wrapUnderPassphrase(
	ctx context.Context,
	passphrase string,
	dek []byte,
	tenantID uuid.UUID,
) (cryptoDomain.Envelope, []byte, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return cryptoDomain.Envelope{}, nil, apperrors.Wrap(err, "failed to generate salt")
	}

	kek, err := t.keyDeriver.Derive(ctx, passphrase, salt)
	if err != nil {
		return cryptoDomain.Envelope{}, nil, err
	}
	defer cryptoDomain.Zero(kek)

	wrapped, err := t.keyManager.WrapDek(kek, dek, tenantID)
	if err != nil {
		return cryptoDomain.Envelope{}, nil, err
	}

	stored, err := t.envelopeWrapper.WrapForStorage(ctx, wrapped)
	if err != nil {
		return cryptoDomain.Envelope{}, nil, err
	}

	return stored, salt, nil
}

// unwrapWithPassphrase reverses wrapUnderPassphrase for a stored envelope.
func (t *tenantUseCase) unwrapWithPassphrase(
	ctx context.Context,
	passphrase string,
	salt []byte,
	stored cryptoDomain.Envelope,
	tenantID uuid.UUID,
) ([]byte, error) {
	wrapped, err := t.envelopeWrapper.UnwrapFromStorage(ctx, stored)
	if err != nil {
		return nil, err
	}

	kek, err := t.keyDeriver.Derive(ctx, passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(kek)

	return t.keyManager.UnwrapDek(kek, wrapped, tenantID)
}

// NewTenantUseCase creates a new tenant use case instance with the provided dependencies.
func NewTenantUseCase(
	txManager database.TxManager,
	tenantRepo TenantRepository,
	keyDeriver cryptoService.KeyDeriver,
	keyManager cryptoService.KeyManager,
	envelopeWrapper cryptoService.EnvelopeWrapper,
	recoveryCodes tenantService.RecoveryCodeService,
	auditUC auditUsecase.AuditUseCase,
	dekEvictor DekEvictor,
	algorithm cryptoDomain.Algorithm,
	costParams cryptoDomain.CostParams,
) TenantUseCase {
	return &tenantUseCase{
		txManager:       txManager,
		tenantRepo:      tenantRepo,
		keyDeriver:      keyDeriver,
		keyManager:      keyManager,
		envelopeWrapper: envelopeWrapper,
		recoveryCodes:   recoveryCodes,
		auditUC:         auditUC,
		dekEvictor:      dekEvictor,
		algorithm:       algorithm,
		costParams:      costParams,
	}
}

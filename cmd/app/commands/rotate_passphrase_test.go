package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	tenantUseCase "github.com/ledgerlock/ledgerlock/internal/tenant/usecase"
	tenantMocks "github.com/ledgerlock/ledgerlock/internal/tenant/usecase/mocks"
)

func TestRotatePassphrase(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	tenantID := uuid.Must(uuid.NewV7())

	output := &tenantUseCase.RotatePassphraseOutput{RecoveryCode: "fresh-recovery-code"}

	t.Run("success-with-current-passphrase", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("RotatePassphrase", ctx, tenantUseCase.RotatePassphraseInput{
			TenantID:          tenantID,
			CurrentPassphrase: "correct horse battery staple",
			NewPassphrase:     "horse battery staple correct",
			Actor:             "cli",
		}).Return(output, nil).Once()

		var out bytes.Buffer
		io := IOTuple{Reader: strings.NewReader(""), Writer: &out}

		err := rotatePassphrase(ctx, mockUseCase, logger, io,
			tenantID.String(), "correct horse battery staple", "", "horse battery staple correct", "text")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Passphrase rotated successfully!")
		require.Contains(t, out.String(), "fresh-recovery-code")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("success-with-recovery-code", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("RotatePassphrase", ctx, tenantUseCase.RotatePassphraseInput{
			TenantID:      tenantID,
			RecoveryCode:  "old-recovery-code",
			NewPassphrase: "horse battery staple correct",
			Actor:         "cli",
		}).Return(output, nil).Once()

		var out bytes.Buffer
		io := IOTuple{Reader: strings.NewReader(""), Writer: &out}

		err := rotatePassphrase(ctx, mockUseCase, logger, io,
			tenantID.String(), "", "old-recovery-code", "horse battery staple correct", "json")
		require.NoError(t, err)

		var result map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, "fresh-recovery-code", result["recovery_code"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("prompts-when-no-credentials", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("RotatePassphrase", ctx, tenantUseCase.RotatePassphraseInput{
			TenantID:          tenantID,
			CurrentPassphrase: "typed current passphrase",
			NewPassphrase:     "typed brand new passphrase",
			Actor:             "cli",
		}).Return(output, nil).Once()

		var out bytes.Buffer
		io := IOTuple{
			Reader: strings.NewReader("typed current passphrase\ntyped brand new passphrase\n"),
			Writer: &out,
		}

		err := rotatePassphrase(ctx, mockUseCase, logger, io, tenantID.String(), "", "", "", "text")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Current passphrase: ")
		require.Contains(t, out.String(), "New passphrase: ")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-tenant-id", func(t *testing.T) {
		var out bytes.Buffer
		io := IOTuple{Reader: strings.NewReader(""), Writer: &out}

		err := rotatePassphrase(ctx, nil, logger, io, "bogus", "a", "", "b", "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid tenant id")
	})
}

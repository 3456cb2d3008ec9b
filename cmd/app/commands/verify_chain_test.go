package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	auditMocks "github.com/ledgerlock/ledgerlock/internal/audit/usecase/mocks"
)

func TestVerifyChain(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	tenantID := uuid.Must(uuid.NewV7())

	t.Run("valid-text", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, tenantID).Return(&auditDomain.VerifyResult{
			TenantID:       tenantID,
			EventsVerified: 12,
			TailSequence:   12,
			TailHash:       []byte{0xab, 0xcd},
		}, nil).Once()

		var out bytes.Buffer
		err := verifyChain(ctx, mockUseCase, logger, &out, tenantID.String(), "text")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Status: VALID")
		require.Contains(t, out.String(), "abcd")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("valid-json", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, tenantID).Return(&auditDomain.VerifyResult{
			TenantID:       tenantID,
			EventsVerified: 12,
			TailSequence:   12,
			TailHash:       []byte{0xab, 0xcd},
		}, nil).Once()

		var out bytes.Buffer
		err := verifyChain(ctx, mockUseCase, logger, &out, tenantID.String(), "json")
		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, true, result["valid"])
		require.Equal(t, float64(12), result["events_verified"])
	})

	t.Run("broken-chain", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("Verify", ctx, tenantID).Return(nil, &auditDomain.ChainBrokenError{
			TenantID:     tenantID,
			Sequence:     7,
			EventID:      uuid.Must(uuid.NewV7()),
			ExpectedHash: []byte{0x01},
			ActualHash:   []byte{0x02},
			Reason:       "hash mismatch",
		}).Once()

		var out bytes.Buffer
		err := verifyChain(ctx, mockUseCase, logger, &out, tenantID.String(), "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "audit chain broken at sequence 7")
		require.Contains(t, out.String(), "Status: BROKEN")
		require.Contains(t, out.String(), "hash mismatch")
	})

	t.Run("invalid-tenant-id", func(t *testing.T) {
		err := verifyChain(ctx, nil, logger, nil, "not-a-uuid", "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid tenant id")
	})
}

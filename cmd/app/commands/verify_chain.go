package commands

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ledgerlock/ledgerlock/internal/app"
	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	auditUseCase "github.com/ledgerlock/ledgerlock/internal/audit/usecase"
	"github.com/ledgerlock/ledgerlock/internal/config"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
)

// RunVerifyChain walks a tenant's audit chain recomputing every hash link.
// Reports the chain summary on success or the first broken link, and returns
// a non-nil error for a broken chain so the exit code signals tampering.
//
// Requirements: Database must be migrated and accessible.
func RunVerifyChain(ctx context.Context, tenantID, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	useCase, err := container.AuditUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit use case: %w", err)
	}

	return verifyChain(ctx, useCase, logger, DefaultIO().Writer, tenantID, format)
}

// verifyChain holds the command logic, separated from container wiring for testing.
func verifyChain(
	ctx context.Context,
	useCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
	writer io.Writer,
	tenantID, format string,
) error {
	id, err := uuid.Parse(tenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	logger.Info("verifying audit chain", slog.String("tenant_id", id.String()))

	result, err := useCase.Verify(ctx, id)
	if err != nil {
		var brokenErr *auditDomain.ChainBrokenError
		if apperrors.As(err, &brokenErr) {
			if format == "json" {
				outputBrokenChainJSON(brokenErr, writer)
			} else {
				outputBrokenChainText(brokenErr, writer)
			}
			return fmt.Errorf("audit chain broken at sequence %d: %s", brokenErr.Sequence, brokenErr.Reason)
		}
		return fmt.Errorf("failed to verify audit chain: %w", err)
	}

	if format == "json" {
		outputVerifyChainJSON(result, writer)
	} else {
		outputVerifyChainText(result, writer)
	}

	logger.Info("audit chain verified",
		slog.String("tenant_id", id.String()),
		slog.Uint64("events_verified", result.EventsVerified),
	)

	return nil
}

// outputVerifyChainText outputs the verification summary in human-readable text format.
func outputVerifyChainText(result *auditDomain.VerifyResult, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "Audit Chain Verification")
	_, _ = fmt.Fprintln(writer, "========================")
	_, _ = fmt.Fprintf(writer, "Tenant ID:       %s\n", result.TenantID.String())
	_, _ = fmt.Fprintf(writer, "Events Verified: %d\n", result.EventsVerified)
	_, _ = fmt.Fprintf(writer, "Tail Sequence:   %d\n", result.TailSequence)
	_, _ = fmt.Fprintf(writer, "Tail Hash:       %s\n", hex.EncodeToString(result.TailHash))
	_, _ = fmt.Fprintln(writer, "\nStatus: VALID")
}

// outputVerifyChainJSON outputs the verification summary in JSON format.
func outputVerifyChainJSON(result *auditDomain.VerifyResult, writer io.Writer) {
	out := map[string]interface{}{
		"tenant_id":       result.TenantID.String(),
		"valid":           true,
		"events_verified": result.EventsVerified,
		"tail_sequence":   result.TailSequence,
		"tail_hash":       hex.EncodeToString(result.TailHash),
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(writer, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}

// outputBrokenChainText outputs the first broken link in human-readable text format.
func outputBrokenChainText(brokenErr *auditDomain.ChainBrokenError, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "Audit Chain Verification")
	_, _ = fmt.Fprintln(writer, "========================")
	_, _ = fmt.Fprintf(writer, "Tenant ID:     %s\n", brokenErr.TenantID.String())
	_, _ = fmt.Fprintf(writer, "Broken At:     sequence %d (event %s)\n", brokenErr.Sequence, brokenErr.EventID.String())
	_, _ = fmt.Fprintf(writer, "Reason:        %s\n", brokenErr.Reason)
	_, _ = fmt.Fprintf(writer, "Expected Hash: %s\n", hex.EncodeToString(brokenErr.ExpectedHash))
	_, _ = fmt.Fprintf(writer, "Stored Hash:   %s\n", hex.EncodeToString(brokenErr.ActualHash))
	_, _ = fmt.Fprintln(writer, "\nStatus: BROKEN")
}

// outputBrokenChainJSON outputs the first broken link in JSON format.
func outputBrokenChainJSON(brokenErr *auditDomain.ChainBrokenError, writer io.Writer) {
	out := map[string]interface{}{
		"tenant_id":       brokenErr.TenantID.String(),
		"valid":           false,
		"broken_sequence": brokenErr.Sequence,
		"broken_event_id": brokenErr.EventID.String(),
		"reason":          brokenErr.Reason,
		"expected_hash":   hex.EncodeToString(brokenErr.ExpectedHash),
		"stored_hash":     hex.EncodeToString(brokenErr.ActualHash),
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(writer, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}

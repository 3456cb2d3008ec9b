package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ledgerlock/ledgerlock/internal/app"
	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	auditUseCase "github.com/ledgerlock/ledgerlock/internal/audit/usecase"
	"github.com/ledgerlock/ledgerlock/internal/config"
)

// RunPurgeAuditEvents removes a tenant's audit events up to and including the
// given sequence. A summary event anchoring the removed prefix is appended
// first, so the remaining chain still verifies end to end.
//
// Requirements: Database must be migrated and accessible.
func RunPurgeAuditEvents(ctx context.Context, tenantID string, throughSequence uint64, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	useCase, err := container.AuditUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit use case: %w", err)
	}

	return purgeAuditEvents(ctx, useCase, logger, DefaultIO().Writer, tenantID, throughSequence, format)
}

// purgeAuditEvents holds the command logic, separated from container wiring for testing.
func purgeAuditEvents(
	ctx context.Context,
	useCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
	writer io.Writer,
	tenantID string,
	throughSequence uint64,
	format string,
) error {
	id, err := uuid.Parse(tenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	if throughSequence == 0 {
		return fmt.Errorf("through-sequence must be greater than zero")
	}

	logger.Info("purging audit events",
		slog.String("tenant_id", id.String()),
		slog.Uint64("through_sequence", throughSequence),
	)

	result, err := useCase.Purge(ctx, id, throughSequence, "cli")
	if err != nil {
		return fmt.Errorf("failed to purge audit events: %w", err)
	}

	if format == "json" {
		outputPurgeJSON(result, writer)
	} else {
		outputPurgeText(result, writer)
	}

	logger.Info("audit events purged",
		slog.String("tenant_id", id.String()),
		slog.Int64("events_removed", result.EventsRemoved),
	)

	return nil
}

// outputPurgeText outputs the purge summary in human-readable text format.
func outputPurgeText(result *auditDomain.PurgeResult, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "Audit events purged successfully!")
	_, _ = fmt.Fprintf(writer, "Tenant ID:        %s\n", result.TenantID.String())
	_, _ = fmt.Fprintf(writer, "Events Removed:   %d\n", result.EventsRemoved)
	_, _ = fmt.Fprintf(writer, "Through Sequence: %d\n", result.ThroughSequence)
	_, _ = fmt.Fprintf(writer, "Tail Sequence:    %d\n", result.TailSequence)
}

// outputPurgeJSON outputs the purge summary in JSON format.
func outputPurgeJSON(result *auditDomain.PurgeResult, writer io.Writer) {
	out := map[string]interface{}{
		"tenant_id":        result.TenantID.String(),
		"events_removed":   result.EventsRemoved,
		"through_sequence": result.ThroughSequence,
		"tail_sequence":    result.TailSequence,
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(writer, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}

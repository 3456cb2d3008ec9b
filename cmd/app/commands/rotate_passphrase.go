package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ledgerlock/ledgerlock/internal/app"
	"github.com/ledgerlock/ledgerlock/internal/config"
	tenantUseCase "github.com/ledgerlock/ledgerlock/internal/tenant/usecase"
)

// RunRotatePassphrase re-wraps a tenant's DEK under a new passphrase. Access
// is proven with the current passphrase or the recovery code; stored content
// is untouched because the DEK itself does not change. A fresh recovery code
// is issued and the previous one stops working.
//
// Requirements: Database must be migrated and accessible.
func RunRotatePassphrase(
	ctx context.Context,
	tenantID, currentPassphrase, recoveryCode, newPassphrase, format string,
) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	useCase, err := container.TenantUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize tenant use case: %w", err)
	}

	return rotatePassphrase(
		ctx, useCase, logger, DefaultIO(),
		tenantID, currentPassphrase, recoveryCode, newPassphrase, format,
	)
}

// rotatePassphrase holds the command logic, separated from container wiring for testing.
func rotatePassphrase(
	ctx context.Context,
	useCase tenantUseCase.TenantUseCase,
	logger *slog.Logger,
	io IOTuple,
	tenantID, currentPassphrase, recoveryCode, newPassphrase, format string,
) error {
	id, err := uuid.Parse(tenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	if currentPassphrase == "" && recoveryCode == "" {
		currentPassphrase, err = promptForSecret(io, "Current passphrase")
		if err != nil {
			return err
		}
	}

	if newPassphrase == "" {
		newPassphrase, err = promptForSecret(io, "New passphrase")
		if err != nil {
			return err
		}
	}

	logger.Info("rotating tenant passphrase", slog.String("tenant_id", id.String()))

	output, err := useCase.RotatePassphrase(ctx, tenantUseCase.RotatePassphraseInput{
		TenantID:          id,
		CurrentPassphrase: currentPassphrase,
		RecoveryCode:      recoveryCode,
		NewPassphrase:     newPassphrase,
		Actor:             "cli",
	})
	if err != nil {
		return fmt.Errorf("failed to rotate passphrase: %w", err)
	}

	if format == "json" {
		outputRotateJSON(output, io.Writer)
	} else {
		outputRotateText(output, io.Writer)
	}

	logger.Info("passphrase rotated successfully", slog.String("tenant_id", id.String()))

	return nil
}

// outputRotateText outputs the result in human-readable text format.
func outputRotateText(output *tenantUseCase.RotatePassphraseOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nPassphrase rotated successfully!")
	_, _ = fmt.Fprintf(writer, "New Recovery Code: %s\n", output.RecoveryCode)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The previous recovery code no longer works. Store the new one securely.")
}

// outputRotateJSON outputs the result in JSON format for machine consumption.
func outputRotateJSON(output *tenantUseCase.RotatePassphraseOutput, writer io.Writer) {
	result := map[string]string{
		"recovery_code": output.RecoveryCode,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(writer, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}

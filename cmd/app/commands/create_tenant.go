package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ledgerlock/ledgerlock/internal/app"
	"github.com/ledgerlock/ledgerlock/internal/config"
	tenantUseCase "github.com/ledgerlock/ledgerlock/internal/tenant/usecase"
)

// RunCreateTenant provisions a new tenant with its key hierarchy and audit
// chain. Prompts for the passphrase when the flag is omitted so it stays out
// of shell history. Outputs the tenant id and one-time recovery code in
// either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateTenant(ctx context.Context, name, passphrase, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	useCase, err := container.TenantUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize tenant use case: %w", err)
	}

	return createTenant(ctx, useCase, logger, DefaultIO(), name, passphrase, format)
}

// createTenant holds the command logic, separated from container wiring for testing.
func createTenant(
	ctx context.Context,
	useCase tenantUseCase.TenantUseCase,
	logger *slog.Logger,
	io IOTuple,
	name, passphrase, format string,
) error {
	logger.Info("creating new tenant", slog.String("name", name))

	if passphrase == "" {
		var err error
		passphrase, err = promptForSecret(io, "Passphrase")
		if err != nil {
			return err
		}
	}

	output, err := useCase.Create(ctx, tenantUseCase.CreateTenantInput{
		Name:       name,
		Passphrase: passphrase,
		Actor:      "cli",
	})
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if format == "json" {
		outputCreateTenantJSON(output, io.Writer)
	} else {
		outputCreateTenantText(output, io.Writer)
	}

	logger.Info("tenant created successfully",
		slog.String("tenant_id", output.Tenant.ID.String()),
		slog.String("name", name),
	)

	return nil
}

// outputCreateTenantText outputs the result in human-readable text format.
func outputCreateTenantText(output *tenantUseCase.CreateTenantOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nTenant created successfully!")
	_, _ = fmt.Fprintf(writer, "Tenant ID: %s\n", output.Tenant.ID.String())
	_, _ = fmt.Fprintf(writer, "Name: %s\n", output.Tenant.Name)
	_, _ = fmt.Fprintf(writer, "Algorithm: %s\n", output.Tenant.Algorithm)
	_, _ = fmt.Fprintf(writer, "Recovery Code: %s\n", output.RecoveryCode)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The recovery code is shown only once. Store it securely.")
}

// outputCreateTenantJSON outputs the result in JSON format for machine consumption.
func outputCreateTenantJSON(output *tenantUseCase.CreateTenantOutput, writer io.Writer) {
	result := map[string]string{
		"tenant_id":     output.Tenant.ID.String(),
		"name":          output.Tenant.Name,
		"algorithm":     string(output.Tenant.Algorithm),
		"recovery_code": output.RecoveryCode,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(writer, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}

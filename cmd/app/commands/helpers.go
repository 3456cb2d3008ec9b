// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/ledgerlock/ledgerlock/internal/app"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// promptForSecret reads a secret value from the reader after printing a label.
// Used when a passphrase flag is omitted so the value stays out of shell
// history. Reads one byte at a time to avoid buffering past the newline; the
// same reader may serve a later prompt.
func promptForSecret(io IOTuple, label string) (string, error) {
	_, _ = fmt.Fprintf(io.Writer, "%s: ", label)

	var value strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := io.Reader.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			value.WriteByte(buf[0])
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
	}

	result := strings.TrimRight(value.String(), "\r")
	if result == "" {
		return "", fmt.Errorf("%s cannot be empty", strings.ToLower(label))
	}

	return result, nil
}

// Package commands implements the credstore CLI subcommands.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/credstore/internal/app"
)

// Stdout is where commands print their results.
var Stdout io.Writer = os.Stdout

const (
	formatText = "text"
	formatJSON = "json"
)

func validateFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("invalid format %q: use %s or %s", format, formatText, formatJSON)
	}
	return nil
}

// render prints v as indented JSON for the json format and calls text otherwise.
func render(writer io.Writer, format string, v any, text func(io.Writer)) error {
	if format != formatJSON {
		text(writer)
		return nil
	}
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json output: %w", err)
	}
	return nil
}

func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("container shutdown", slog.Any("error", err))
	}
}

func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		logger.Error("migrate close",
			slog.Any("source_error", srcErr),
			slog.Any("database_error", dbErr),
		)
	}
}

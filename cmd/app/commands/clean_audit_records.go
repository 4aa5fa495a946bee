package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	auditUseCase "github.com/allisson/credstore/internal/audit/usecase"
)

// RunCleanAuditRecords deletes audit records older than days. With dryRun it only
// counts the matching records.
func RunCleanAuditRecords(
	ctx context.Context,
	useCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("cleaning audit records",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := useCase.DeleteOlderThan(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete audit records: %w", err)
	}

	result := map[string]any{"count": count, "days": days, "dry_run": dryRun}
	if err := render(writer, format, result, func(w io.Writer) {
		outputCleanText(w, count, days, dryRun)
	}); err != nil {
		return err
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

func outputCleanText(writer io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d audit record(s) older than %d day(s)\n", count, days)
		return
	}
	_, _ = fmt.Fprintf(writer, "Successfully deleted %d audit record(s) older than %d day(s)\n", count, days)
}

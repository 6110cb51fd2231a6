package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ReferencePurger deletes gateway references created before a cutoff.
type ReferencePurger interface {
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// RunCleanGatewayReferences deletes gateway references older than the specified
// number of days. Supports dry-run mode to preview deletion count and both text/JSON
// output formats.
//
// Requirements: the reference store must be "postgres" or "mysql" and migrated. The
// memory and redis stores expire entries with REFERENCE_TTL instead.
func RunCleanGatewayReferences(
	ctx context.Context,
	purger ReferencePurger,
	logger *slog.Logger,
	out io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning gateway references",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	olderThan := time.Now().UTC().AddDate(0, 0, -days)
	count, err := purger.DeleteOlderThan(ctx, olderThan, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete gateway references: %w", err)
	}

	if format == "json" {
		if err := writeJSON(out, map[string]any{"count": count, "days": days, "dry_run": dryRun}); err != nil {
			return err
		}
	} else {
		verb := "Successfully deleted"
		if dryRun {
			verb = "Dry-run mode: Would delete"
		}
		if _, err := fmt.Fprintf(out, "%s %d gateway reference(s) older than %d day(s)\n", verb, count, days); err != nil {
			return err
		}
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

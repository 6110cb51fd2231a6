package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// TopicEnsurer creates missing topics.
type TopicEnsurer interface {
	EnsureTopics(ctx context.Context, topics []string) error
}

// RunEnsureTopics provisions the configured topics. Existing topics are left
// untouched, so the command can run on every deploy.
func RunEnsureTopics(
	ctx context.Context,
	ensurer TopicEnsurer,
	logger *slog.Logger,
	out io.Writer,
	topics []string,
	format string,
) error {
	if len(topics) == 0 {
		return fmt.Errorf("no topics configured")
	}

	logger.Info("ensuring kafka topics", slog.Any("topics", topics))

	if err := ensurer.EnsureTopics(ctx, topics); err != nil {
		return fmt.Errorf("failed to ensure topics: %w", err)
	}

	if format == "json" {
		return writeJSON(out, map[string]any{"topics": topics})
	}

	_, err := fmt.Fprintf(out, "Topics ready: %s\n", strings.Join(topics, ", "))
	return err
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"wpn/internal/formatter"
)

// Export aggregates every channel and writes the corpus to a file or stdout.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	corpus, failures, err := r.aggregator.AllChannelsData(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate channel data: %w", err)
	}
	for _, failure := range failures {
		r.logger.Warn("channel skipped", "channel", failure.Channel.Name, "err", failure.Err)
	}

	data, err := formatter.Export(corpus, format, r.config.Site.Delimiter)
	if err != nil {
		return err
	}

	if output == "" {
		return r.writePlain("%s", data)
	}

	if err := formatter.WriteFile(output, data); err != nil {
		return err
	}

	r.logger.Info("export written", "path", output, "format", format, "channels", len(corpus))
	r.writePlainln("✓ Exported %d channel(s) to %s", len(corpus), output)

	if len(failures) > 0 {
		r.writePlainln("%d channel(s) were unavailable and omitted", len(failures))
	}

	return nil
}

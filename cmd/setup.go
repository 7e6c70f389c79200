package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"wpn/internal/shared"
)

// SetupConfig writes the example configuration to the given path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config created", "path", path)
	r.writePlainln("✓ Wrote %s — adjust it before first use", path)

	return nil
}

// SetupDatabase initializes the SQLite database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Info("database ready", "path", r.config.Database.Path)
	r.writePlainln("✓ Database initialized at %s", r.config.Database.Path)

	return nil
}

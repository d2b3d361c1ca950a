package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/killallgit/fortune-api/internal/database"
	"github.com/killallgit/fortune-api/pkg/config"
	"github.com/spf13/cobra"
)

// newMigrateCmd builds the migrate command and its up/down/status children
func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Manage database migrations for the Fortune API.

This command provides subcommands to apply, rollback, and check the status
of the embedded SQL migrations for the configured database driver.

Available subcommands:
  up      - Apply all pending migrations
  down    - Rollback the last migration
  status  - Show current migration status`,
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Long: `Apply all pending database migrations.

This command will create the database if it does not exist and apply
every migration that has not yet been applied.`,
		RunE: runMigrateUp,
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback the last migration",
		Long: `Rollback the last applied migration.

This command will undo the most recently applied migration,
reverting the database schema to the previous state.`,
		RunE: runMigrateDown,
	}
	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to rollback")

	migrateStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long: `Display the current status of database migrations.

This command shows which migrations have been applied and which
are pending.`,
		RunE: runMigrateStatus,
	}

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	return migrateCmd
}

// newMigrator builds a migrator for the configured driver
func newMigrator(cfg *config.Config, out io.Writer) (*database.Migrator, error) {
	u, err := database.MigrationURL(cfg.Database.Driver, cfg.Database.Path, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = io.Discard
	}
	if cfg.Database.Driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	return database.NewMigrator(cfg.Database.Driver, u, out)
}

// migrateUp applies every pending migration
func migrateUp(cfg *config.Config, out io.Writer) error {
	m, err := newMigrator(cfg, out)
	if err != nil {
		return err
	}
	return m.Up()
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	m, err := newMigrator(cfg, out)
	if err != nil {
		return err
	}

	if dryRun {
		pending, err := m.Pending()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		printMigrations(out, "Would apply", pending)
		return nil
	}

	if err := m.Up(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Migrations applied")
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	steps, _ := cmd.Flags().GetInt("steps")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	if steps <= 0 {
		return fmt.Errorf("--steps must be positive, got %d", steps)
	}

	m, err := newMigrator(cfg, out)
	if err != nil {
		return err
	}

	if dryRun {
		last, err := m.LastApplied(steps)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		printMigrations(out, "Would roll back", last)
		return nil
	}

	if err := m.Down(steps); err != nil {
		return err
	}
	fmt.Fprintf(out, "Rolled back %d migration(s)\n", steps)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	m, err := newMigrator(cfg, out)
	if err != nil {
		return err
	}

	all, err := m.Status()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Database Migration Status (%s)\n", cfg.Database.Driver)
	fmt.Fprintln(out, strings.Repeat("=", 50))

	applied := 0
	for _, mig := range all {
		mark := "[ ]"
		if mig.Applied {
			mark = "[X]"
			applied++
		}
		fmt.Fprintf(out, "%s %s\n", mark, mig.FileName)
	}
	fmt.Fprintf(out, "\nApplied: %d\nPending: %d\n", applied, len(all)-applied)
	return nil
}

func printMigrations(out io.Writer, verb string, migs []database.MigrationInfo) {
	if len(migs) == 0 {
		fmt.Fprintf(out, "%s: nothing\n", verb)
		return
	}
	for _, mig := range migs {
		fmt.Fprintf(out, "%s: %s\n", verb, mig.FileName)
	}
}

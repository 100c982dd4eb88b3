package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxnote/ideas-api/internal/database"
	"github.com/voxnote/ideas-api/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Bring the local SQLite schema up to date.

The serve and record commands migrate automatically on startup; this
command exists for provisioning a database ahead of time or checking
that the configured path is writable.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	fmt.Printf("Database migrated: %s\n", cfg.Database.Path)
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxnote/ideas-api/internal/database"
	ideasService "github.com/voxnote/ideas-api/internal/services/ideas"
	"github.com/voxnote/ideas-api/internal/services/remote"
	"github.com/voxnote/ideas-api/internal/services/syncer"
	"github.com/voxnote/ideas-api/pkg/config"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push ready ideas to the remote store",
	Long: `Run one sync pass against the configured Supabase project.

Ready ideas that have not been synced yet are uploaded oldest first:
the audio file goes to the storage bucket and the idea record is
upserted into the remote ideas table. Without configured credentials
this is a no-op.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
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

	store := ideasService.NewService(ideasService.NewRepository(db.DB))
	remoteStore := remote.NewStore(remote.Config{
		URL:      cfg.Supabase.URL,
		AnonKey:  cfg.Supabase.AnonKey,
		Email:    cfg.Supabase.Email,
		Password: cfg.Supabase.Password,
		Bucket:   cfg.Supabase.Bucket,
	})

	synced, err := syncer.NewReconciler(store, remoteStore).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("running sync: %w", err)
	}

	fmt.Printf("Synced %d idea(s)\n", synced)
	return nil
}

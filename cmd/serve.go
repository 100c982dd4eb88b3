package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voxnote/ideas-api/api"
	"github.com/voxnote/ideas-api/api/types"
	"github.com/voxnote/ideas-api/internal/database"
	ideasService "github.com/voxnote/ideas-api/internal/services/ideas"
	"github.com/voxnote/ideas-api/internal/services/pipeline"
	"github.com/voxnote/ideas-api/internal/services/remote"
	"github.com/voxnote/ideas-api/internal/services/summarization"
	"github.com/voxnote/ideas-api/internal/services/syncer"
	"github.com/voxnote/ideas-api/internal/services/transcription"
	"github.com/voxnote/ideas-api/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the ideas API server with the configured settings.

The server accepts recording uploads, runs the transcription and
summarization pipeline for each one, and periodically syncs ready
ideas to the remote store.

Example:
  ideas-api serve
  ideas-api serve --port 9090
  ideas-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Use config values if flags not provided
	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	// Wire the services
	store := ideasService.NewService(ideasService.NewRepository(db.DB))

	transcriber := transcription.NewClient(transcription.Config{
		Endpoint: cfg.Transcription.Endpoint,
		APIKey:   cfg.Transcription.APIKey,
		Timeout:  cfg.Transcription.Timeout,
	})
	summarizer := summarization.NewClient(summarization.Config{
		Endpoint: cfg.Summarization.Endpoint,
		APIKey:   cfg.Summarization.APIKey,
		Timeout:  cfg.Summarization.Timeout,
	})
	processor := pipeline.NewProcessor(store, transcriber, summarizer)

	remoteStore := remote.NewStore(remote.Config{
		URL:      cfg.Supabase.URL,
		AnonKey:  cfg.Supabase.AnonKey,
		Email:    cfg.Supabase.Email,
		Password: cfg.Supabase.Password,
		Bucket:   cfg.Supabase.Bucket,
	})
	reconciler := syncer.NewReconciler(store, remoteStore)

	deps := &types.Dependencies{
		DB:            db,
		IdeaService:   store,
		Pipeline:      processor,
		Reconciler:    reconciler,
		RecordingsDir: cfg.Storage.RecordingsDir,
	}

	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDependencies(deps)
	server.SetMaxUploadSize(cfg.Storage.MaxUploadSize)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	// Background sync loop
	var runner *syncer.Runner
	if cfg.Sync.Enabled {
		runner = syncer.NewRunner(reconciler, cfg.Sync.Interval)
		runner.Start(cmd.Context())
	}

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Printf("Server is ready to handle requests at %s:%d", serverHost, serverPort)

	select {
	case <-stop:
		log.Printf("Shutting down server...")
	case err := <-serverErr:
		log.Printf("[ERROR] %v", err)
		log.Printf("Shutting down server...")
	}

	if runner != nil {
		runner.Stop()
	}

	// Let in-flight pipeline runs persist their outcome
	processor.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Printf("Server gracefully stopped")
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxnote/ideas-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ideas-api",
	Short: "Voice idea capture and processing server",
	Long: `VoxNote Ideas API - capture voice memos and turn them into structured notes

Recordings are transcribed, summarized into a title, key points, and
tags, and stored locally in SQLite. Ready ideas are pushed to a remote
Supabase project in the background.

Features:
  • Audio capture via ffmpeg with pause/resume and level metering
  • Transcription and structured summarization pipeline
  • Local SQLite store with full-text search over ideas
  • Background sync of audio and records to Supabase`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Set up configuration loading with lazy initialization
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	// Skip config loading for commands that don't need it
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

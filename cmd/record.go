package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxnote/ideas-api/internal/database"
	"github.com/voxnote/ideas-api/internal/models"
	ideasService "github.com/voxnote/ideas-api/internal/services/ideas"
	"github.com/voxnote/ideas-api/internal/services/pipeline"
	"github.com/voxnote/ideas-api/internal/services/recorder"
	"github.com/voxnote/ideas-api/internal/services/summarization"
	"github.com/voxnote/ideas-api/internal/services/transcription"
	"github.com/voxnote/ideas-api/pkg/config"
)

var recordNoProcess bool

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a voice idea from the microphone",
	Long: `Record a voice idea using the configured audio device.

Recording runs until you press Enter or interrupt with Ctrl+C. The
finished recording is stored locally and run through the transcription
and summarization pipeline, printing the resulting note.

Example:
  ideas-api record
  ideas-api record --no-process`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().BoolVar(&recordNoProcess, "no-process", false, "save the recording without transcribing or summarizing")
}

func runRecord(cmd *cobra.Command, args []string) error {
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

	capture := recorder.NewFFmpegCapture(recorder.FFmpegCaptureConfig{
		FFmpegPath:  cfg.Recording.FFmpegPath,
		Device:      cfg.Recording.Device,
		SampleRate:  cfg.Recording.SampleRate,
		Channels:    cfg.Recording.Channels,
		MaxDuration: cfg.Recording.MaxDuration,
	})
	if err := capture.ValidateBinary(); err != nil {
		return err
	}

	session := recorder.NewSession(capture, cfg.Storage.RecordingsDir, cfg.Recording.TickInterval)
	if err := session.Start(cmd.Context()); err != nil {
		return fmt.Errorf("starting recording: %w", err)
	}

	fmt.Println("Recording... press Enter to stop")

	// Stop on Enter or on an interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	enter := make(chan struct{})
	go func() {
		bufio.NewReader(os.Stdin).ReadString('\n')
		close(enter)
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

waitLoop:
	for {
		select {
		case <-enter:
			break waitLoop
		case <-stop:
			fmt.Println()
			break waitLoop
		case <-ticker.C:
			fmt.Printf("\r  %s  level %.0f%%   ", session.Elapsed().Round(time.Second), session.Level()*100)
		}
	}
	fmt.Println()

	result, err := session.Stop()
	if err != nil {
		return fmt.Errorf("stopping recording: %w", err)
	}
	if result == nil {
		fmt.Println("Nothing was captured")
		return nil
	}

	store := ideasService.NewService(ideasService.NewRepository(db.DB))
	idea, err := store.CreateIdea(cmd.Context(), result.URI, result.DurationMs)
	if err != nil {
		return fmt.Errorf("saving idea: %w", err)
	}

	fmt.Printf("Saved idea %s (%s)\n", idea.ID, time.Duration(result.DurationMs)*time.Millisecond)

	if recordNoProcess {
		return nil
	}

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

	fmt.Println("Processing...")
	if err := processor.Process(cmd.Context(), idea.ID); err != nil {
		return fmt.Errorf("processing idea: %w", err)
	}

	final, err := store.GetIdea(cmd.Context(), idea.ID)
	if err != nil {
		return err
	}

	printIdea(final)
	return nil
}

func printIdea(idea *models.Idea) {
	fmt.Printf("\n%s [%s]\n", idea.Title, idea.Status)
	if idea.Summary != nil {
		fmt.Printf("\n%s\n", *idea.Summary)
	}
	if len(idea.KeyPoints) > 0 {
		fmt.Println("\nKey points:")
		for _, point := range idea.KeyPoints {
			fmt.Printf("  - %s\n", point)
		}
	}
	if len(idea.Tags) > 0 {
		fmt.Printf("\nTags: %s\n", strings.Join(idea.Tags, ", "))
	}
	if idea.ErrorMessage != nil {
		fmt.Printf("\nError: %s\n", *idea.ErrorMessage)
	}
}

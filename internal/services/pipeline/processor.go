package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/voxnote/ideas-api/internal/services/ideas"
)

const defaultRunTimeout = 5 * time.Minute

// Processor drives one idea through the transcribe-then-summarize pipeline.
// Runs are fire-and-forget: the caller observes progress by re-reading the
// idea store, never through callbacks. Every persisted transition is a
// single write, and a failure at either stage lands the idea in the error
// status instead of escaping the run.
type Processor struct {
	ideas       ideas.Service
	transcriber Transcriber
	summarizer  Summarizer
	runTimeout  time.Duration
	wg          sync.WaitGroup
}

// NewProcessor creates a new pipeline processor
func NewProcessor(ideaService ideas.Service, transcriber Transcriber, summarizer Summarizer) *Processor {
	return &Processor{
		ideas:       ideaService,
		transcriber: transcriber,
		summarizer:  summarizer,
		runTimeout:  defaultRunTimeout,
	}
}

// Trigger starts a detached pipeline run for a freshly created idea.
// It returns immediately; the run itself begins with the recording →
// transcribing guard so a duplicate trigger for the same idea is a no-op.
func (p *Processor) Trigger(id string) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), p.runTimeout)
		defer cancel()

		if err := p.Process(ctx, id); err != nil {
			log.Printf("[ERROR] Pipeline run for idea %s: %v", id, err)
		}
	}()
}

// Wait blocks until all in-flight pipeline runs have finished
func (p *Processor) Wait() {
	p.wg.Wait()
}

// Process runs the full pipeline for an idea synchronously. The guard
// transition out of recording is part of the run: if the idea already left
// the recording status the run is skipped without error.
func (p *Processor) Process(ctx context.Context, id string) error {
	ok, err := p.ideas.BeginProcessing(ctx, id)
	if err != nil {
		return fmt.Errorf("starting pipeline: %w", err)
	}
	if !ok {
		log.Printf("[WARN] Idea %s is not awaiting processing, skipping pipeline run", id)
		return nil
	}

	p.runStages(ctx, id)
	return nil
}

// Retry starts a new pipeline run for an idea that previously failed. The
// stages execute in a detached goroutine; the boolean reports whether the
// retry was accepted (the idea was in the error status).
func (p *Processor) Retry(ctx context.Context, id string) (bool, error) {
	ok, err := p.ideas.BeginRetry(ctx, id)
	if err != nil {
		return false, fmt.Errorf("starting retry: %w", err)
	}
	if !ok {
		return false, nil
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		runCtx, cancel := context.WithTimeout(context.Background(), p.runTimeout)
		defer cancel()

		p.runStages(runCtx, id)
	}()

	return true, nil
}

// runStages executes transcription then summarization for an idea already
// in the transcribing status. Each stage failure is persisted as the error
// status with the failure reason; nothing propagates to the caller.
func (p *Processor) runStages(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] Pipeline panic for idea %s: %v", id, r)
			p.fail(id, fmt.Sprintf("internal error: %v", r))
		}
	}()

	idea, err := p.ideas.GetIdea(ctx, id)
	if err != nil {
		log.Printf("[ERROR] Pipeline could not load idea %s: %v", id, err)
		p.fail(id, fmt.Sprintf("loading idea: %v", err))
		return
	}

	log.Printf("[DEBUG] Transcribing idea %s from %s", id, idea.AudioURI)

	transcript, err := p.transcriber.Transcribe(ctx, idea.AudioURI)
	if err != nil {
		log.Printf("[WARN] Transcription failed for idea %s: %v", id, err)
		p.fail(id, err.Error())
		return
	}

	if err := p.ideas.SaveTranscript(ctx, id, transcript); err != nil {
		log.Printf("[ERROR] Persisting transcript for idea %s: %v", id, err)
		p.fail(id, fmt.Sprintf("saving transcript: %v", err))
		return
	}

	log.Printf("[DEBUG] Summarizing idea %s (%d transcript characters)", id, len(transcript))

	summary, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		log.Printf("[WARN] Summarization failed for idea %s: %v", id, err)
		p.fail(id, err.Error())
		return
	}

	if err := p.ideas.SaveSummary(ctx, id, summary); err != nil {
		log.Printf("[ERROR] Persisting summary for idea %s: %v", id, err)
		p.fail(id, fmt.Sprintf("saving summary: %v", err))
		return
	}

	log.Printf("[DEBUG] Idea %s ready: %q", id, summary.Title)
}

// fail persists the error status with its own context so a cancelled run
// context cannot block recording the failure.
func (p *Processor) fail(id, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.ideas.MarkFailed(ctx, id, reason); err != nil {
		log.Printf("[ERROR] Failed to mark idea %s as failed: %v", id, err)
	}
}

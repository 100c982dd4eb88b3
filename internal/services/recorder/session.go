package recorder

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxnote/ideas-api/pkg/errors"
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateActive
	statePaused
)

// Result describes a finished recording
type Result struct {
	URI        string
	DurationMs int64
}

// Session drives one recording at a time over a Capture backend.
// It owns the elapsed-duration clock, excluding paused time, and
// samples the capture's signal level on a periodic tick.
type Session struct {
	capture       Capture
	recordingsDir string
	tickInterval  time.Duration
	now           func() time.Time

	mu          sync.Mutex
	state       sessionState
	destPath    string
	startedAt   time.Time
	accumulated time.Duration
	level       float64

	stopTick chan struct{}
	tickDone chan struct{}
}

// NewSession creates an idle session writing audio under recordingsDir
func NewSession(capture Capture, recordingsDir string, tickInterval time.Duration) *Session {
	if tickInterval <= 0 {
		tickInterval = 200 * time.Millisecond
	}
	return &Session{
		capture:       capture,
		recordingsDir: recordingsDir,
		tickInterval:  tickInterval,
		now:           time.Now,
	}
}

// Start begins capturing to a fresh file. Calling Start while a
// recording is live is rejected, not restarted.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateIdle {
		return errors.New(errors.ErrCodeRecordingActive, "a recording is already in progress")
	}

	if err := os.MkdirAll(s.recordingsDir, 0o755); err != nil {
		return errors.StorageUnavailable(fmt.Errorf("creating recordings directory: %w", err))
	}

	destPath := filepath.Join(s.recordingsDir, uuid.New().String()+".m4a")
	if err := s.capture.Start(ctx, destPath); err != nil {
		return err
	}

	s.state = stateActive
	s.destPath = destPath
	s.startedAt = s.now()
	s.accumulated = 0
	s.level = 0
	s.stopTick = make(chan struct{})
	s.tickDone = make(chan struct{})
	go s.tickLoop(s.stopTick, s.tickDone)

	log.Printf("[DEBUG] Recording started: %s", destPath)
	return nil
}

// Pause suspends capture. The paused interval does not count toward
// the recording's duration.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateActive {
		return fmt.Errorf("no active recording to pause")
	}
	if err := s.capture.Pause(); err != nil {
		return fmt.Errorf("pausing capture: %w", err)
	}
	s.accumulated += s.now().Sub(s.startedAt)
	s.state = statePaused
	return nil
}

// Resume continues a paused recording
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != statePaused {
		return fmt.Errorf("no paused recording to resume")
	}
	if err := s.capture.Resume(); err != nil {
		return fmt.Errorf("resuming capture: %w", err)
	}
	s.startedAt = s.now()
	s.state = stateActive
	return nil
}

// Stop finalizes the recording and returns its artifact. Stopping an
// idle session, or one whose capture produced no audio, returns nil
// with no error.
func (s *Session) Stop() (*Result, error) {
	s.mu.Lock()

	if s.state == stateIdle {
		s.mu.Unlock()
		return nil, nil
	}

	if s.state == stateActive {
		s.accumulated += s.now().Sub(s.startedAt)
	}

	destPath := s.destPath
	duration := s.accumulated
	stopTick := s.stopTick
	tickDone := s.tickDone

	// Go idle before releasing the lock; a concurrent Stop must see an
	// idle session rather than close stopTick a second time.
	s.state = stateIdle
	s.destPath = ""
	s.accumulated = 0
	s.level = 0
	s.stopTick = nil
	s.tickDone = nil
	s.mu.Unlock()

	close(stopTick)
	<-tickDone

	if err := s.capture.Stop(); err != nil {
		return nil, fmt.Errorf("stopping capture: %w", err)
	}

	info, statErr := os.Stat(destPath)
	if statErr != nil || info.Size() == 0 {
		// Nothing was captured; clean up any zero-byte artifact
		if statErr == nil {
			os.Remove(destPath)
		}
		log.Printf("[WARN] Recording produced no audio: %s", destPath)
		return nil, nil
	}

	log.Printf("[DEBUG] Recording stopped: %s (%dms)", destPath, duration.Milliseconds())
	return &Result{URI: destPath, DurationMs: duration.Milliseconds()}, nil
}

// Elapsed returns the recorded duration so far, excluding paused time
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := s.accumulated
	if s.state == stateActive {
		elapsed += s.now().Sub(s.startedAt)
	}
	return elapsed
}

// Level returns the most recently sampled signal level in [0,1]
func (s *Session) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Active reports whether a recording is live or paused
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != stateIdle
}

func (s *Session) tickLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			level := s.capture.Level()
			s.mu.Lock()
			if s.state == stateActive {
				s.level = level
			}
			s.mu.Unlock()
		}
	}
}

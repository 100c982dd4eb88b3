package recorder

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/voxnote/ideas-api/pkg/errors"
)

// Capture abstracts the audio input backend behind the session
type Capture interface {
	// Start begins writing captured audio to destPath
	Start(ctx context.Context, destPath string) error
	// Pause suspends capture without losing buffered audio
	Pause() error
	// Resume continues a paused capture
	Resume() error
	// Stop finalizes the audio file and releases the device
	Stop() error
	// Level reports the most recent input signal level in [0,1]
	Level() float64
}

// FFmpegCaptureConfig configures an ffmpeg-backed capture
type FFmpegCaptureConfig struct {
	FFmpegPath  string        // defaults to "ffmpeg"
	InputFormat string        // e.g. "alsa", "avfoundation", "pulse"
	Device      string        // e.g. "default", ":0"
	SampleRate  int           // defaults to 44100
	Channels    int           // defaults to 1
	MaxDuration time.Duration // 0 means unbounded
}

// FFmpegCapture records from an audio device by running ffmpeg as a
// child process. Signal levels are read from ffmpeg's astats filter
// output on stdout; pause and resume use SIGSTOP/SIGCONT.
type FFmpegCapture struct {
	config FFmpegCaptureConfig

	mu     sync.Mutex
	cmd    *exec.Cmd
	stderr *bytes.Buffer
	done   chan struct{}
	level  float64
}

// NewFFmpegCapture creates an ffmpeg capture with defaults applied
func NewFFmpegCapture(config FFmpegCaptureConfig) *FFmpegCapture {
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}
	if config.InputFormat == "" {
		config.InputFormat = "alsa"
	}
	if config.Device == "" {
		config.Device = "default"
	}
	if config.SampleRate == 0 {
		config.SampleRate = 44100
	}
	if config.Channels == 0 {
		config.Channels = 1
	}
	return &FFmpegCapture{config: config}
}

var _ Capture = (*FFmpegCapture)(nil)

// ValidateBinary checks that the ffmpeg binary is available
func (c *FFmpegCapture) ValidateBinary() error {
	if _, err := exec.LookPath(c.config.FFmpegPath); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", c.config.FFmpegPath, err)
	}
	return nil
}

// Start launches the ffmpeg process writing to destPath
func (c *FFmpegCapture) Start(ctx context.Context, destPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd != nil {
		return errors.New(errors.ErrCodeRecordingActive, "capture already running")
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", c.config.InputFormat,
		"-i", c.config.Device,
		"-ac", strconv.Itoa(c.config.Channels),
		"-ar", strconv.Itoa(c.config.SampleRate),
		// Print one RMS level line per second to stdout for metering
		"-af", "astats=metadata=1:reset=1,ametadata=mode=print:key=lavfi.astats.Overall.RMS_level:file=-",
		"-c:a", "aac",
	}
	if c.config.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.0f", c.config.MaxDuration.Seconds()))
	}
	args = append(args, "-y", destPath)

	cmd := exec.CommandContext(ctx, c.config.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting ffmpeg: %w", err)
	}

	done := make(chan struct{})
	c.cmd = cmd
	c.stderr = &stderr
	c.done = done

	go c.readLevels(stdout)
	go func() {
		cmd.Wait()
		close(done)
	}()

	// A device that refuses access makes ffmpeg exit almost instantly
	select {
	case <-done:
		c.cmd = nil
		c.done = nil
		if isPermissionFailure(stderr.String()) {
			return errors.PermissionDenied(c.config.Device)
		}
		return fmt.Errorf("ffmpeg exited during startup: %s", strings.TrimSpace(stderr.String()))
	case <-time.After(250 * time.Millisecond):
	}

	return nil
}

// Pause suspends the ffmpeg process
func (c *FFmpegCapture) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd == nil || c.cmd.Process == nil {
		return fmt.Errorf("no active capture to pause")
	}
	return c.cmd.Process.Signal(syscall.SIGSTOP)
}

// Resume continues a paused ffmpeg process
func (c *FFmpegCapture) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd == nil || c.cmd.Process == nil {
		return fmt.Errorf("no active capture to resume")
	}
	return c.cmd.Process.Signal(syscall.SIGCONT)
}

// Stop asks ffmpeg to finalize the output container and waits for it
// to exit. SIGINT makes ffmpeg write the trailer, which matters for
// m4a output; a process that ignores it is killed after a grace period.
func (c *FFmpegCapture) Stop() error {
	c.mu.Lock()
	cmd := c.cmd
	done := c.done
	c.cmd = nil
	c.done = nil
	c.mu.Unlock()

	if cmd == nil {
		return nil
	}

	select {
	case <-done:
		// Already exited, e.g. MaxDuration elapsed
		return nil
	default:
	}

	// In case the process is paused, SIGINT alone would not be handled
	cmd.Process.Signal(syscall.SIGCONT)
	if err := cmd.Process.Signal(syscall.SIGINT); err != nil {
		return fmt.Errorf("signaling ffmpeg: %w", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		log.Printf("[WARN] ffmpeg did not exit after SIGINT, killing")
		cmd.Process.Kill()
		<-done
	}

	return nil
}

// Level returns the most recent RMS level scaled to [0,1]
func (c *FFmpegCapture) Level() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// readLevels parses astats metadata lines from ffmpeg stdout.
// Lines look like: lavfi.astats.Overall.RMS_level=-23.511995
func (c *FFmpegCapture) readLevels(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		value, ok := strings.CutPrefix(line, "lavfi.astats.Overall.RMS_level=")
		if !ok {
			continue
		}
		db, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}
		c.mu.Lock()
		c.level = dbToLinear(db)
		c.mu.Unlock()
	}
}

// dbToLinear converts a dBFS value to a [0,1] amplitude
func dbToLinear(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	linear := math.Pow(10, db/20)
	if linear > 1 {
		linear = 1
	}
	return linear
}

func isPermissionFailure(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "operation not permitted") ||
		strings.Contains(lower, "cannot open audio device")
}

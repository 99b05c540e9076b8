package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// Runner invokes the external capture facility for the three invocation
// shapes the pipeline needs: live stream to file, live stream to a single
// stdout frame, and local file to thumbnail.
type Runner struct {
	binary string
	exec   Executor
}

// NewRunner constructs a capture runner around the given binary.
func NewRunner(binary string, opts ...Option) (*Runner, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("capture binary required")
	}
	runner := &Runner{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// CaptureClip records a fixed-duration, video-only clip from the live stream
// directly to the job's output path.
func (r *Runner) CaptureClip(ctx context.Context, job ClipJob) error {
	if err := job.validate(); err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, job.Timeout)
	defer cancel()
	if err := r.exec.Run(ctx, r.binary, job.args()); err != nil {
		return fmt.Errorf("capture clip: %w", err)
	}
	return nil
}

// CaptureFrame grabs a single frame from the live stream and returns the
// encoded image bytes.
func (r *Runner) CaptureFrame(ctx context.Context, job FrameJob) ([]byte, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, job.Timeout)
	defer cancel()
	data, err := r.exec.Output(ctx, r.binary, job.args())
	if err != nil {
		return nil, fmt.Errorf("capture frame: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("capture frame: empty output")
	}
	return data, nil
}

// ExtractThumbnail pulls a still frame out of a locally saved clip. It never
// touches the network stream, so it cannot contend with a live capture.
func (r *Runner) ExtractThumbnail(ctx context.Context, job ThumbnailJob) error {
	if err := job.validate(); err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, job.Timeout)
	defer cancel()
	if err := r.exec.Run(ctx, r.binary, job.args()); err != nil {
		return fmt.Errorf("extract thumbnail: %w", err)
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	// ffmpeg writes diagnostics to stderr even on success; discard unless the
	// command fails.
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return commandError(err, &stderr)
	}
	return nil
}

func (commandExecutor) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, commandError(err, &stderr)
	}
	return stdout.Bytes(), nil
}

func commandError(err error, stderr *bytes.Buffer) error {
	detail := strings.TrimSpace(lastLine(stderr.String()))
	if detail == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, detail)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"superforge/internal/config"
	"superforge/internal/logging"
	"superforge/internal/manifest"
	"superforge/internal/services"
)

const (
	stageName       = "convert"
	maxStderrLength = 2048
	defaultDelay    = 2 * time.Second
)

// Request describes one conversion.
type Request struct {
	Book       int
	WorkDir    string
	Descriptor string
	OutputFile string
}

// Result reports a successful conversion.
type Result struct {
	Book       int
	OutputPath string
	Attempts   int
	Duration   time.Duration
}

// Runner converts one book. The pipeline depends on this interface so tests
// can substitute a fake converter.
type Runner interface {
	Convert(ctx context.Context, req Request) (Result, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, dir, binary string, args []string) (stderr []byte, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, stageName)
	}
}

// WithRetryDelay overrides the delay between attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay >= 0 {
			c.delay = delay
		}
	}
}

// Client wraps converter CLI interactions.
type Client struct {
	binary    string
	timeout   time.Duration
	retries   int
	extraArgs []string
	delay     time.Duration
	exec      Executor
	logger    *slog.Logger
}

// New constructs a converter client. retries is the number of additional
// attempts after the first.
func New(binary string, timeout time.Duration, retries int, extraArgs []string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("converter binary required")
	}
	if retries < 0 {
		retries = 0
	}
	client := &Client{
		binary:    binary,
		timeout:   timeout,
		retries:   retries,
		extraArgs: append([]string(nil), extraArgs...),
		delay:     defaultDelay,
		exec:      commandExecutor{},
		logger:    logging.NewComponentLogger(nil, stageName),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig constructs a client from the converter section of cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("converter config required")
	}
	opts = append([]Option{WithLogger(logger)}, opts...)
	return New(cfg.Converter.Binary, cfg.ConverterTimeout(), cfg.Converter.RetryAttempts, cfg.Converter.ExtraArgs, opts...)
}

// RequestFor builds the conversion request for book under layout.
func RequestFor(layout manifest.Layout, book int, outputFile string) Request {
	return Request{
		Book:       book,
		WorkDir:    layout.HTMLDir(book),
		Descriptor: manifest.DescriptorName(book),
		OutputFile: outputFile,
	}
}

// Args returns the converter arguments for req.
func (c *Client) Args(req Request) []string {
	args := []string{"--defaults", req.Descriptor}
	return append(args, c.extraArgs...)
}

// Convert runs the converter for req, retrying retryable failures.
func (c *Client) Convert(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}
	if _, err := os.Stat(filepath.Join(req.WorkDir, req.Descriptor)); err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, stageName, "descriptor", fmt.Sprintf("book %d", req.Book), err)
	}

	logger := logging.WithContext(services.WithBook(ctx, req.Book), c.logger)
	args := c.Args(req)
	started := time.Now()
	attempts := 0

	err := retry.Do(
		func() error {
			attempts++
			return c.attempt(ctx, req, args)
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.retries+1)),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(services.Retryable),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("converter attempt failed; retrying",
				logging.Int("attempt", int(n)+1),
				logging.Error(err),
			)
		}),
	)
	if err != nil {
		return Result{}, err
	}

	outputPath := filepath.Join(req.WorkDir, req.OutputFile)
	if _, err := os.Stat(outputPath); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, stageName, "verify output",
			fmt.Sprintf("converter produced no %s", req.OutputFile), err)
	}

	result := Result{
		Book:       req.Book,
		OutputPath: outputPath,
		Attempts:   attempts,
		Duration:   time.Since(started),
	}
	logger.Info("converter finished",
		logging.String("output", outputPath),
		logging.Int("attempts", attempts),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

func (c *Client) attempt(ctx context.Context, req Request, args []string) error {
	attemptCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	stderr, err := c.exec.Run(attemptCtx, req.WorkDir, c.binary, args)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return retry.Unrecoverable(ctxErr)
	}
	return classify(c.binary, req.Book, attemptCtx.Err(), stderr, err)
}

func classify(binary string, book int, attemptErr error, stderr []byte, err error) error {
	detail := fmt.Sprintf("book %d", book)
	if tail := stderrTail(stderr); tail != "" {
		detail += ": " + tail
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, stageName, "locate binary", fmt.Sprintf("converter %q not found", binary), err)
	}
	if errors.Is(attemptErr, context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, stageName, "run", detail, err)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() < 0 {
		return services.Wrap(services.ErrTransient, stageName, "run", detail+" (terminated by signal)", err)
	}
	return services.Wrap(services.ErrExternalTool, stageName, "run", detail, err)
}

func validateRequest(req Request) error {
	switch {
	case req.Book <= 0:
		return services.Wrap(services.ErrValidation, stageName, "request", "book number required", nil)
	case strings.TrimSpace(req.WorkDir) == "":
		return services.Wrap(services.ErrValidation, stageName, "request", "working directory required", nil)
	case strings.TrimSpace(req.Descriptor) == "":
		return services.Wrap(services.ErrValidation, stageName, "request", "descriptor filename required", nil)
	case strings.TrimSpace(req.OutputFile) == "":
		return services.Wrap(services.ErrValidation, stageName, "request", "output filename required", nil)
	}
	return nil
}

func stderrTail(stderr []byte) string {
	text := strings.TrimSpace(string(stderr))
	if len(text) > maxStderrLength {
		text = "..." + text[len(text)-maxStderrLength:]
	}
	return text
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, dir, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"superforge/internal/config"
	"superforge/internal/content"
	"superforge/internal/convert"
	"superforge/internal/descriptor"
	"superforge/internal/fileutil"
	"superforge/internal/logging"
	"superforge/internal/manifest"
	"superforge/internal/metadata"
	"superforge/internal/partition"
	"superforge/internal/services"
)

// ErrLocked is returned when another build holds the books directory lock.
var ErrLocked = errors.New("another superforge build is running")

// Store is the subset of the content store the pipeline needs.
type Store interface {
	EnsureBooks(ctx context.Context) error
	Book(ctx context.Context, book int) (*content.Book, error)
	SaveDescriptor(ctx context.Context, book int, body []byte, inputCount int) error
	StartRun(ctx context.Context, runID string, books []int) (*content.Run, error)
	FinishRun(ctx context.Context, runID string, status content.RunStatus, errMsg string) error
}

// Options selects optional build steps.
type Options struct {
	// Check fails a book whose manifest documents are not all on disk.
	Check bool
	// Convert runs the external converter after writing the descriptor.
	// Conversion implies Check.
	Convert bool
	// Jobs overrides build.jobs when positive.
	Jobs int
}

// Result reports the outcome of one book.
type Result struct {
	Book           int           `json:"book" yaml:"book"`
	Sections       []int         `json:"sections" yaml:"sections"`
	Inputs         int           `json:"inputs" yaml:"inputs"`
	OutputFile     string        `json:"output_file" yaml:"output_file"`
	DescriptorPath string        `json:"descriptor_path" yaml:"descriptor_path"`
	Converted      bool          `json:"converted" yaml:"converted"`
	OutputPath     string        `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
	Err            error         `json:"-" yaml:"-"`
	Error          string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the book finished without error.
func (r Result) OK() bool { return r.Err == nil }

// Summary reports the outcome of a build run.
type Summary struct {
	RunID   string            `json:"run_id" yaml:"run_id"`
	Status  content.RunStatus `json:"status" yaml:"status"`
	Results []Result          `json:"results" yaml:"results"`
}

// Failed returns the results that carry an error.
func (s Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Pipeline builds books using the configured layout, store and converter.
type Pipeline struct {
	cfg    *config.Config
	store  Store
	runner convert.Runner
	logger *slog.Logger
	lock   *flock.Flock
}

// New constructs a pipeline. runner may be nil when conversion is never
// requested.
func New(cfg *config.Config, store Store, runner convert.Runner, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("pipeline requires config and store")
	}
	return &Pipeline{
		cfg:    cfg,
		store:  store,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		lock:   flock.New(cfg.Layout().LockPath()),
	}, nil
}

// NormalizeBooks validates, sorts and deduplicates books. An empty list
// selects every book.
func NormalizeBooks(books []int) ([]int, error) {
	if len(books) == 0 {
		return partition.Books(), nil
	}
	out := make([]int, 0, len(books))
	for _, book := range books {
		if err := partition.ValidateBook(book); err != nil {
			return nil, err
		}
		out = append(out, book)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Build processes books and returns one Result per book sorted by book
// number. The returned error covers failures that prevented the run itself;
// per-book failures are reported in the Summary.
func (p *Pipeline) Build(ctx context.Context, books []int, opts Options) (Summary, error) {
	books, err := NormalizeBooks(books)
	if err != nil {
		return Summary{}, err
	}
	if opts.Convert && p.runner == nil {
		return Summary{}, services.Wrap(services.ErrConfiguration, "pipeline", "build", "conversion requested without a converter", nil)
	}

	if err := os.MkdirAll(p.cfg.Paths.BooksDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create books directory: %w", err)
	}
	ok, err := p.lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire build lock: %w", err)
	}
	if !ok {
		return Summary{}, fmt.Errorf("%w (lock %s)", ErrLocked, p.lock.Path())
	}
	defer func() {
		if err := p.lock.Unlock(); err != nil {
			p.logger.Warn("failed to release build lock", logging.Error(err))
		}
	}()

	if err := p.store.EnsureBooks(ctx); err != nil {
		return Summary{}, fmt.Errorf("seed books: %w", err)
	}

	runID := uuid.NewString()
	if _, err := p.store.StartRun(ctx, runID, books); err != nil {
		return Summary{}, fmt.Errorf("start run: %w", err)
	}
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("build started", logging.Any("books", books), logging.Bool("convert", opts.Convert))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = p.cfg.Build.Jobs
	}
	jobs = max(1, min(jobs, len(books)))

	results := make([]Result, len(books))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	for i, book := range books {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = Result{Book: book, Err: ctx.Err()}
				return
			}
			results[i] = p.buildBook(services.WithBook(ctx, book), book, opts)
		}()
	}
	wg.Wait()

	slices.SortFunc(results, func(a, b Result) int { return a.Book - b.Book })
	summary := Summary{RunID: runID, Results: results}
	var failures []string
	for i := range summary.Results {
		r := &summary.Results[i]
		if r.Err != nil {
			r.Error = r.Err.Error()
			failures = append(failures, fmt.Sprintf("book %d: %s", r.Book, r.Error))
		}
	}
	switch {
	case len(failures) == 0:
		summary.Status = content.RunSucceeded
	case len(failures) == len(results):
		summary.Status = content.RunFailed
	default:
		summary.Status = content.RunPartial
	}

	finishCtx := context.WithoutCancel(ctx)
	if err := p.store.FinishRun(finishCtx, runID, summary.Status, strings.Join(failures, "; ")); err != nil {
		logger.Warn("failed to record run result", logging.Error(err))
	}
	logger.Info("build finished",
		logging.String("status", string(summary.Status)),
		logging.Int("books", len(results)),
		logging.Int("failed", len(failures)),
	)
	return summary, nil
}

func (p *Pipeline) buildBook(ctx context.Context, book int, opts Options) Result {
	started := time.Now()
	logger := logging.WithContext(ctx, p.logger)
	result := Result{Book: book}

	fail := func(err error) Result {
		result.Err = err
		result.Duration = time.Since(started)
		logger.Error("book failed", logging.Error(err))
		return result
	}

	m, err := manifest.Build(book)
	if err != nil {
		return fail(err)
	}
	result.Sections = m.Sections

	rec, err := p.store.Book(ctx, book)
	if err != nil {
		return fail(fmt.Errorf("load book: %w", err))
	}
	if rec == nil {
		return fail(fmt.Errorf("book %d has no store row", book))
	}
	outputFile := rec.OutputFile
	if strings.TrimSpace(outputFile) == "" {
		outputFile = descriptor.DefaultOutputFile(book)
	}

	layout := p.cfg.Layout()
	res := p.cfg.BookResources(book, outputFile)
	desc, err := descriptor.Render(book, m, res)
	if err != nil {
		return fail(err)
	}
	body, err := desc.Encode()
	if err != nil {
		return fail(err)
	}

	if err := p.stageAssets(ctx, book, res); err != nil {
		return fail(err)
	}

	docs, err := metadata.Documents(book, rec.Title, rec.UUID, p.cfg.MetadataOptions())
	if err != nil {
		return fail(err)
	}
	for _, doc := range docs {
		if err := writeIfChanged(filepath.Join(layout.HTMLDir(book), doc.Name), doc.Data); err != nil {
			return fail(fmt.Errorf("write %s: %w", doc.Name, err))
		}
	}
	descriptorPath := layout.DescriptorPath(book)
	if err := writeIfChanged(descriptorPath, body); err != nil {
		return fail(fmt.Errorf("write descriptor: %w", err))
	}
	if err := p.store.SaveDescriptor(ctx, book, body, len(desc.InputFiles)); err != nil {
		return fail(err)
	}
	result.Inputs = len(desc.InputFiles)
	result.OutputFile = outputFile
	result.DescriptorPath = descriptorPath
	logger.Info("descriptor written",
		logging.String("path", descriptorPath),
		logging.Int("inputs", result.Inputs),
	)

	if opts.Check || opts.Convert {
		missing, err := CheckDocuments(m, layout)
		if err != nil {
			return fail(err)
		}
		if len(missing) > 0 {
			return fail(&MissingDocumentsError{Book: book, Paths: missing})
		}
	}

	if opts.Convert {
		converted, err := p.runner.Convert(ctx, convert.RequestFor(layout, book, outputFile))
		if err != nil {
			return fail(err)
		}
		result.Converted = true
		result.OutputPath = converted.OutputPath
	}
	result.Duration = time.Since(started)
	return result
}

// stageAssets copies shared assets that are missing from the book's
// directories. It is a no-op when no assets directory is configured.
func (p *Pipeline) stageAssets(ctx context.Context, book int, res descriptor.Resources) error {
	assetsDir := p.cfg.Paths.AssetsDir
	if assetsDir == "" {
		return nil
	}
	logger := logging.WithContext(ctx, p.logger)
	for _, asset := range res.Assets(book) {
		if _, err := os.Stat(asset.Path); err == nil {
			continue
		}
		src := filepath.Join(assetsDir, asset.Name)
		if _, err := os.Stat(src); err != nil {
			logger.Debug("asset not available", logging.String("asset", asset.Name))
			continue
		}
		if err := fileutil.CopyFileVerified(src, asset.Path); err != nil {
			return fmt.Errorf("copy asset %s: %w", asset.Name, err)
		}
		logger.Debug("asset staged", logging.String("path", asset.Path))
	}
	return nil
}

func writeIfChanged(path string, data []byte) error {
	if fileutil.SameContent(path, data) {
		return nil
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

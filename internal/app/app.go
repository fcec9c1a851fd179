// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/kiln/internal/adapters/detector"
	"go.trai.ch/kiln/internal/adapters/linear"
	"go.trai.ch/kiln/internal/adapters/report"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/adapters/tui"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App orchestrates notebook runs: parsing, rendering, the pipeline,
// report writing and watch mode.
type App struct {
	parser        ports.DocumentParser
	fingerprinter ports.Fingerprinter
	store         ports.ArtifactStore
	locker        ports.BuildLocker
	generator     ports.ProjectGenerator
	runner        ports.CommandRunner
	reporter      *report.Writer
	watcher       ports.Watcher
	logger        ports.Logger
	settings      *domain.Settings
	teaOptions    []tea.ProgramOption
}

// New creates a new App instance.
func New(
	parser ports.DocumentParser,
	fingerprinter ports.Fingerprinter,
	store ports.ArtifactStore,
	locker ports.BuildLocker,
	generator ports.ProjectGenerator,
	runner ports.CommandRunner,
	reporter *report.Writer,
	watcher ports.Watcher,
	log ports.Logger,
	settings *domain.Settings,
) *App {
	return &App{
		parser:        parser,
		fingerprinter: fingerprinter,
		store:         store,
		locker:        locker,
		generator:     generator,
		runner:        runner,
		reporter:      reporter,
		watcher:       watcher,
		logger:        log,
		settings:      settings,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	OutputMode  string
	Watch       bool
	NoReport    bool
	Parallelism int
}

// Run executes the given notebooks and writes their reports. In watch
// mode it then re-executes notebooks as their files change until the
// context is cancelled.
func (a *App) Run(ctx context.Context, paths []string, opts RunOptions) error {
	if len(paths) == 0 {
		return domain.ErrNoNotebooksSpecified
	}

	notebooks := make([]*domain.Notebook, 0, len(paths))
	for _, path := range paths {
		nb, err := a.parser.Parse(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrNotebookParseFailed.Error()), "path", path)
		}
		notebooks = append(notebooks, nb)
	}

	autoMode := detector.DetectEnvironment()
	mode := detector.ResolveMode(autoMode, opts.OutputMode)
	if opts.Watch {
		// The TUI owns the terminal for the lifetime of one run; watch
		// mode is a long-lived session, so it always renders linearly.
		mode = detector.ModeLinear
	}

	var renderer ports.Renderer
	if mode == detector.ModeTUI {
		model := tui.NewModel(os.Stderr)
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		renderer = tui.NewRenderer(&model, optsTea...)
	} else {
		renderer = linear.NewRenderer(os.Stdout, os.Stderr)
	}

	// Spans started anywhere below reach the renderer through the
	// global OTel provider and the bridge span processor.
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	tracer := telemetry.NewOTelTracer("kiln").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	pipe := pipeline.NewPipeline(
		a.fingerprinter,
		a.store,
		a.locker,
		a.generator,
		a.runner,
		tracer,
		a.logger,
		a.settings,
	)

	stages := make([]string, 0, 2*len(notebooks))
	for _, nb := range notebooks {
		stages = append(stages, pipeline.StageNames(nb)...)
	}
	tracer.EmitPlan(ctx, stages)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "pipeline panic: %v\n", r)
			}
			_ = renderer.Stop()
		}()

		if err := a.runNotebooks(ctx, pipe, notebooks, opts); err != nil {
			if opts.Watch {
				// A failing notebook stays under watch; the next change
				// may fix it.
				a.logger.Error(err)
			} else {
				return err
			}
		}
		if opts.Watch {
			return a.watch(ctx, pipe, paths, opts)
		}
		return nil
	})

	return g.Wait()
}

// runNotebooks fans the notebooks out over the pipeline with bounded
// parallelism and writes a report per notebook.
func (a *App) runNotebooks(
	ctx context.Context,
	pipe *pipeline.Pipeline,
	notebooks []*domain.Notebook,
	opts RunOptions,
) error {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	var mu sync.Mutex
	var errs error

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for _, nb := range notebooks {
		nb := nb
		g.Go(func() error {
			result := pipe.Run(ctx, nb)

			if !result.Success {
				mu.Lock()
				errs = errors.Join(errs, zerr.With(zerr.New(result.ErrorMessage), "notebook", nb.Path))
				mu.Unlock()
			}

			if !opts.NoReport {
				if path, err := a.reporter.Write(nb, result); err != nil {
					mu.Lock()
					errs = errors.Join(errs, err)
					mu.Unlock()
				} else {
					a.logger.Info(fmt.Sprintf("report written to %s", path))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		errs = errors.Join(errs, err)
	}
	if errs != nil {
		return errors.Join(domain.ErrRunFailed, errs)
	}
	return nil
}

// watch re-executes notebooks as their files change until ctx is done.
func (a *App) watch(
	ctx context.Context,
	pipe *pipeline.Pipeline,
	paths []string,
	opts RunOptions,
) error {
	a.logger.Info(fmt.Sprintf("watching %d notebook(s) for changes", len(paths)))

	err := a.watcher.Watch(ctx, paths, func(changed []string) {
		notebooks := make([]*domain.Notebook, 0, len(changed))
		for _, path := range changed {
			nb, parseErr := a.parser.Parse(path)
			if parseErr != nil {
				a.logger.Error(zerr.With(zerr.Wrap(parseErr, domain.ErrNotebookParseFailed.Error()), "path", path))
				continue
			}
			notebooks = append(notebooks, nb)
		}
		if len(notebooks) == 0 {
			return
		}
		if runErr := a.runNotebooks(ctx, pipe, notebooks, opts); runErr != nil {
			a.logger.Error(runErr)
		}
	})
	if err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}

	<-ctx.Done()
	if stopErr := a.watcher.Stop(); stopErr != nil {
		a.logger.Warn(fmt.Sprintf("failed to stop watcher: %v", stopErr))
	}
	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Artifacts bool
	Outputs   bool
	Locks     bool
	PruneAge  time.Duration
}

// staleLockClearer is the optional maintenance capability of the build
// locker.
type staleLockClearer interface {
	ClearStale() (int, error)
}

// Clean removes cached artifacts, captured outputs and stale locks
// according to the options. With PruneAge set it prunes by age instead
// of removing everything.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	var errs error

	remove := func(path string, name string) {
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	root := a.settings.CacheRoot

	if options.PruneAge > 0 {
		removed, err := a.store.Prune(options.PruneAge)
		if err != nil {
			errs = errors.Join(errs, err)
		}
		a.logger.Info(fmt.Sprintf("pruned %d cache entr%s", removed, plural(removed, "y", "ies")))
	} else if options.Artifacts {
		remove(domain.ArtifactsPath(root), "cached artifacts")
		remove(domain.StagingPath(root), "build staging")
	}

	if options.Outputs {
		remove(domain.OutputPath(root), "captured outputs")
	}

	if options.Locks {
		if clearer, ok := a.locker.(staleLockClearer); ok {
			removed, err := clearer.ClearStale()
			if err != nil {
				errs = errors.Join(errs, err)
			}
			a.logger.Info(fmt.Sprintf("cleared %d stale lock%s", removed, plural(removed, "", "s")))
		}
	}

	return errs
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge
// so every started span is reported to the renderer.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}

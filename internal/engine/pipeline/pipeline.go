// Package pipeline implements the cached build-and-execute flow for a
// single notebook: fingerprint, cache lookup, locked build, atomic
// commit, execution, output demultiplexing.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Stage names used for spans and renderer plans. Per-notebook names
// are derived via stageName so concurrent notebook runs stay apart in
// the renderer.
const (
	StageBuild   = "build"
	StageExecute = "execute"
)

// Fallback diagnostics for toolchain commands that fail silently.
const (
	noBuildOutput = "build command produced no output"
	noRunOutput   = "run command produced no output"
)

// Pipeline runs notebooks through the cached build-and-execute flow.
// It is safe for use by concurrent goroutines, and safe across
// concurrent processes sharing a cache root: per-fingerprint mutual
// exclusion comes from the locker, commit atomicity from the store.
type Pipeline struct {
	fingerprinter ports.Fingerprinter
	store         ports.ArtifactStore
	locker        ports.BuildLocker
	generator     ports.ProjectGenerator
	runner        ports.CommandRunner
	tracer        ports.Tracer
	logger        ports.Logger
	settings      *domain.Settings
}

// NewPipeline creates a Pipeline with the given collaborators.
func NewPipeline(
	fingerprinter ports.Fingerprinter,
	store ports.ArtifactStore,
	locker ports.BuildLocker,
	generator ports.ProjectGenerator,
	runner ports.CommandRunner,
	tracer ports.Tracer,
	logger ports.Logger,
	settings *domain.Settings,
) *Pipeline {
	return &Pipeline{
		fingerprinter: fingerprinter,
		store:         store,
		locker:        locker,
		generator:     generator,
		runner:        runner,
		tracer:        tracer,
		logger:        logger,
		settings:      settings,
	}
}

// StageNames returns the renderer stage names Run emits for a
// notebook, in order. Callers aggregate these across notebooks for the
// plan announcement.
func StageNames(nb *domain.Notebook) []string {
	return []string{
		stageName(nb, StageBuild),
		stageName(nb, StageExecute),
	}
}

// Run executes one notebook end to end and always returns a complete
// ExecutionResult: exactly one CellResult per cell, in cell order,
// regardless of outcome. Lock and build failures abort before any
// execution is attempted; execution failures mark every cell failed
// uniformly.
func (p *Pipeline) Run(ctx context.Context, nb *domain.Notebook) domain.ExecutionResult {
	tc, ok := p.settings.ToolchainFor(nb)
	if !ok {
		err := zerr.With(domain.ErrUnknownToolchain, "toolchain", nb.Toolchain)
		return domain.FailedResult(nb, err.Error())
	}

	fp := p.fingerprinter.Fingerprint(nb.Cells)

	entry, err := p.ensureArtifact(ctx, nb, tc, fp)
	if err != nil {
		return domain.FailedResult(nb, err.Error())
	}

	return p.execute(ctx, nb, tc, fp, entry)
}

// ensureArtifact returns a valid cache entry for the fingerprint,
// building and committing one under the build lock when none exists.
func (p *Pipeline) ensureArtifact(
	ctx context.Context,
	nb *domain.Notebook,
	tc domain.Toolchain,
	fp domain.Fingerprint,
) (entry ports.CacheEntry, err error) {
	// The span is ended inside the closure so its completion reaches the
	// renderer before the caller moves on to the execute stage.
	func() {
		ctx, span := p.tracer.Start(ctx, stageName(nb, StageBuild))
		defer span.End()
		span.SetAttribute("kiln.fingerprint", fp.Short())
		span.SetAttribute("kiln.toolchain", tc.Name)

		entry = p.store.Lookup(fp)
		if entry.Valid {
			span.SetAttribute("kiln.cached", true)
			p.logger.Info(fmt.Sprintf("cache hit for %s", fp.Short()))
			return
		}

		entry, err = p.build(ctx, nb, tc, fp, span)
		if err != nil {
			span.RecordError(err)
		}
	}()

	return entry, err
}

// build generates, builds and commits the artifact for a fingerprint.
// Must only run while no valid cache entry exists; it takes the build
// lock and releases it before returning, on every path.
func (p *Pipeline) build(
	ctx context.Context,
	nb *domain.Notebook,
	tc domain.Toolchain,
	fp domain.Fingerprint,
	span ports.Span,
) (ports.CacheEntry, error) {
	acquired, err := p.locker.TryAcquire(fp)
	if err != nil {
		return ports.CacheEntry{}, zerr.Wrap(err, "failed to acquire build lock")
	}
	if !acquired {
		// Contention is fatal for this run. No retry, no backoff: a
		// waiting caller cannot tell a live build from a stale lock.
		return ports.CacheEntry{}, zerr.With(domain.ErrLockUnavailable, "fingerprint", fp.Short())
	}
	defer func() {
		if releaseErr := p.locker.Release(fp); releaseErr != nil {
			p.logger.Warn(fmt.Sprintf("failed to release build lock for %s: %v", fp.Short(), releaseErr))
		}
	}()

	// Another process may have committed between our lookup and the
	// lock acquisition.
	if entry := p.store.Lookup(fp); entry.Valid {
		span.SetAttribute("kiln.cached", true)
		return entry, nil
	}

	staging, err := p.store.StagingDir(fp)
	if err != nil {
		return ports.CacheEntry{}, err
	}
	committed := false
	defer func() {
		if !committed {
			if rmErr := os.RemoveAll(staging); rmErr != nil {
				p.logger.Warn(fmt.Sprintf("failed to clean staging directory %s: %v", staging, rmErr))
			}
		}
	}()

	if err := p.generator.Generate(nb, tc, staging); err != nil {
		return ports.CacheEntry{}, zerr.Wrap(err, domain.ErrGenerateFailed.Error())
	}

	res, err := p.runner.Run(ctx, staging, tc.Build, p.settings.Env, span)
	if err != nil {
		return ports.CacheEntry{}, zerr.Wrap(err, domain.ErrBuildFailed.Error())
	}
	if res.TimedOut {
		return ports.CacheEntry{}, zerr.With(domain.ErrBuildTimedOut, "timeout", tc.Build.Timeout.String())
	}
	if !res.OK() {
		return ports.CacheEntry{}, commandFailure(domain.ErrBuildFailed, res, noBuildOutput)
	}

	if err := p.store.Commit(fp, staging); err != nil {
		return ports.CacheEntry{}, err
	}
	committed = true

	entry := p.store.Lookup(fp)
	p.logger.Info(fmt.Sprintf("artifact built and committed for %s", fp.Short()))
	return entry, nil
}

// execute runs the committed artifact and demultiplexes its capture
// file into per-cell results. The artifact directory is immutable once
// committed, so no lock is held here.
func (p *Pipeline) execute(
	ctx context.Context,
	nb *domain.Notebook,
	tc domain.Toolchain,
	fp domain.Fingerprint,
	entry ports.CacheEntry,
) (result domain.ExecutionResult) {
	func() {
		ctx, span := p.tracer.Start(ctx, stageName(nb, StageExecute))
		defer span.End()

		capturePath := p.store.CapturePath(fp)

		// A capture left by a previous run of the same fingerprint must
		// not leak into this run's results.
		if err := os.Remove(capturePath); err != nil && !os.IsNotExist(err) {
			p.logger.Warn(fmt.Sprintf("failed to remove stale capture file %s: %v", capturePath, err))
		}

		env := append([]string{}, p.settings.Env...)
		env = append(env, captureEnvVar+"="+capturePath)

		res, err := p.runner.Run(ctx, entry.Dir, tc.Run, env, span)
		if err != nil {
			err = zerr.Wrap(err, domain.ErrExecutionFailed.Error())
			span.RecordError(err)
			result = domain.FailedResult(nb, err.Error())
			return
		}
		if res.TimedOut {
			err = zerr.With(domain.ErrExecutionTimedOut, "timeout", tc.Run.Timeout.String())
			span.RecordError(err)
			result = domain.FailedResult(nb, err.Error())
			return
		}
		if !res.OK() {
			err = commandFailure(domain.ErrExecutionFailed, res, noRunOutput)
			span.RecordError(err)
			result = domain.FailedResult(nb, err.Error())
			return
		}

		result = p.demux(capturePath, nb)
	}()

	return result
}

// commandFailure surfaces a command's combined output verbatim as the
// error detail, with a generic fallback when the command was silent.
func commandFailure(sentinel error, res domain.CommandResult, fallback string) error {
	detail := strings.TrimSpace(res.Output)
	if detail == "" {
		detail = fallback
	}
	return zerr.With(zerr.Wrap(zerr.New(detail), sentinel.Error()), "exit_code", res.ExitCode)
}

// stageName derives the renderer-visible stage name for a notebook.
func stageName(nb *domain.Notebook, stage string) string {
	return notebookLabel(nb) + ": " + stage
}

func notebookLabel(nb *domain.Notebook) string {
	if nb.Title != "" {
		return nb.Title
	}
	if nb.Path != "" {
		base := filepath.Base(nb.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "notebook"
}

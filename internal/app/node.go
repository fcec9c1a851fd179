package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/cache"
	"go.trai.ch/kiln/internal/adapters/codegen"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/adapters/fingerprint"
	"go.trai.ch/kiln/internal/adapters/flock"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/adapters/markdown"
	"go.trai.ch/kiln/internal/adapters/report"
	"go.trai.ch/kiln/internal/adapters/shell"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Components aggregates the wired application entry points.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NodeID is the unique identifier for the application components Graft
// node.
const NodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			markdown.NodeID,
			fingerprint.NodeID,
			cache.NodeID,
			flock.NodeID,
			codegen.NodeID,
			shell.NodeID,
			report.NodeID,
			watcher.NodeID,
			logger.NodeID,
			config.SettingsNodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			parser, err := graft.Dep[ports.DocumentParser](ctx)
			if err != nil {
				return nil, err
			}
			fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.ArtifactStore](ctx)
			if err != nil {
				return nil, err
			}
			locker, err := graft.Dep[ports.BuildLocker](ctx)
			if err != nil {
				return nil, err
			}
			generator, err := graft.Dep[ports.ProjectGenerator](ctx)
			if err != nil {
				return nil, err
			}
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			reporter, err := graft.Dep[*report.Writer](ctx)
			if err != nil {
				return nil, err
			}
			watch, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			a := New(parser, fingerprinter, store, locker, generator, runner, reporter, watch, log, settings)
			return &Components{App: a, Logger: log}, nil
		},
	})
}

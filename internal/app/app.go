package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vk/dagselect/internal/ctxlog"
	"github.com/vk/dagselect/internal/graph"
	"github.com/vk/dagselect/internal/manifest"
	"github.com/vk/dagselect/internal/nodeid"
	"github.com/vk/dagselect/internal/selector"
	"github.com/vk/dagselect/internal/selectorcfg"
	"github.com/vk/dagselect/internal/syntax"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. Results go to outW;
// logs go to errW so they never interleave with the selection output.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger = logger.With("invocation_id", uuid.NewString())
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
	}
}

// Run resolves the configured selection and writes the matching node ids,
// one per line, in lexical order.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	mf, err := manifest.LoadFile(a.config.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	a.logger.Debug("Manifest loaded.", "members", mf.Len())

	g, err := graph.FromManifest(mf)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", g.Len())

	spec, err := a.resolveSpec()
	if err != nil {
		return err
	}
	a.logger.Debug("Selection spec resolved.", "raw", spec.Raw())

	sel := a.newSelector(g, mf)
	selected, err := sel.GetSelected(ctx, spec)
	if err != nil {
		return fmt.Errorf("selection failed: %w", err)
	}
	a.logger.Info("Selection resolved.", "matched", selected.Len())

	for _, id := range nodeid.Sorted(selected) {
		fmt.Fprintln(a.outW, id)
	}
	return nil
}

// newSelector builds the selector, restricted to the requested resource
// types when any were given.
func (a *App) newSelector(g *graph.Graph, mf *manifest.Manifest) *selector.Selector {
	if len(a.config.ResourceTypes) > 0 {
		return selector.NewResourceTypeSelector(g, mf, a.config.ResourceTypes...)
	}
	return selector.New(g, mf, nil)
}

// resolveSpec turns the configured selection input into a spec tree. A saved
// selector takes precedence; with no inline criteria, a selectors file may
// supply a default; otherwise the inline criteria are parsed directly.
func (a *App) resolveSpec() (selector.Spec, error) {
	var file *selectorcfg.File
	if a.config.SelectorsFile != "" {
		var err error
		file, err = selectorcfg.Load(a.config.SelectorsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load selectors file: %w", err)
		}
	}

	if a.config.SelectorName != "" {
		def, ok := file.Get(a.config.SelectorName)
		if !ok {
			return nil, fmt.Errorf("selector %q is not defined in %s", a.config.SelectorName, a.config.SelectorsFile)
		}
		a.logger.Debug("Using saved selector.", "name", def.Name)
		return def.Compile()
	}

	if len(a.config.Select) == 0 && len(a.config.Exclude) == 0 && file != nil {
		if def, ok := file.DefaultSelector(); ok {
			a.logger.Debug("Using default saved selector.", "name", def.Name)
			return def.Compile()
		}
	}

	return syntax.ParseSpec(a.config.Select, a.config.Exclude, a.config.Greedy)
}

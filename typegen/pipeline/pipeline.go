// Package pipeline runs one generation: load the graph, resolve every root and client,
// then emit declarations, clients and the optional index in parallel.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/logger"
	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/client"
	"github.com/teranos/contractor/typegen/identity"
	"github.com/teranos/contractor/typegen/output"
	"github.com/teranos/contractor/typegen/resolve"
	"github.com/teranos/contractor/typegen/source"
	"github.com/teranos/contractor/typegen/typescript"
	"github.com/teranos/contractor/typegen/util"
)

// settings is the configuration after pre-flight checks
type settings struct {
	layout   typescript.Layout
	renderer client.Renderer
	typeMaps map[string]string
	rules    identity.Rules
	newline  string
}

// plan is the closed resolution result handed to emission
type plan struct {
	decls   *typescript.Declarations
	clients []*client.Resolved
}

// Run executes one generation run described by cfg.
// Configuration errors are reported before any file is written. A file that stays locked
// after every retry is recorded in the result and does not fail the run.
func Run(ctx context.Context, cfg *config.Config) (*typegen.Result, error) {
	runID := uuid.NewString()
	ctx = logger.WithComponent(logger.WithRunID(ctx, runID), "pipeline")
	log := logger.LoggerFromContext(ctx)
	result := typegen.NewResult(runID)
	result.Output = cfg.Output
	start := time.Now()

	s, err := prepare(cfg)
	if err != nil {
		return result, err
	}

	g, err := source.Load(cfg.Input)
	if err != nil {
		return result, err
	}
	log.Debugw("Loaded graph", logger.FieldPath, cfg.Input, logger.FieldCount, len(g.Types))

	p, err := s.resolve(g, cfg.Clients.Enabled)
	if err != nil {
		return result, err
	}
	result.Declarations = p.decls.Len()
	result.Clients = len(p.clients)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	writer := output.NewWriter(cfg.Output)
	if err := s.emit(ctx, log, cfg, p, writer, result); err != nil {
		return result, err
	}

	removed, err := writer.Clean(cfg.Clean)
	for _, path := range removed {
		result.AddRemoved(path)
	}
	if err != nil {
		return result, err
	}

	log.Infow("Generation complete",
		logger.FieldWritten, len(result.Written()),
		logger.FieldFailed, len(result.Failed()),
		logger.FieldRemoved, len(removed),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

// prepare validates cfg and turns it into resolver and emitter settings
func prepare(cfg *config.Config) (*settings, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	casing, err := util.ParseCasing(cfg.Casing)
	if err != nil {
		return nil, err
	}

	s := &settings{
		layout:  typescript.Layout{Casing: casing, Root: cfg.Root},
		newline: cfg.Newline(runtime.GOOS),
	}

	if cfg.Clients.Enabled {
		if s.renderer, err = client.SelectRenderer(cfg.Clients.Template); err != nil {
			return nil, err
		}
	}

	typeMaps, err := config.Pairs(cfg.TypeMaps)
	if err != nil {
		return nil, err
	}
	s.typeMaps = resolve.MergeTypeMaps(typeMaps)

	if s.rules.Replacements, err = config.Pairs(cfg.Replacements); err != nil {
		return nil, err
	}
	s.rules.Strip = cfg.Strip

	overrides, err := config.Pairs(cfg.NameOverrides)
	if err != nil {
		return nil, err
	}
	s.rules.Overrides = make(map[string]identity.Identity, len(overrides))
	for _, o := range overrides {
		s.rules.Overrides[o[0]] = identity.ParseOverride(o[1])
	}
	return s, nil
}

// resolve declares every root and resolves every client, then closes the cache
func (s *settings) resolve(g *source.Graph, clients bool) (*plan, error) {
	registry := identity.NewRegistry(s.rules)
	resolver := resolve.New(g, registry, s.typeMaps, resolve.NewCache())

	if err := g.Validate(resolver.IsMapped); err != nil {
		return nil, err
	}

	for _, name := range g.RootNames() {
		if _, err := resolver.Declare(name); err != nil {
			return nil, errors.Wrapf(err, "root %s", name)
		}
	}

	p := &plan{}
	if clients {
		for _, c := range g.Clients {
			res, err := client.Resolve(resolver, c)
			if err != nil {
				return nil, err
			}
			p.clients = append(p.clients, res)
		}
	}

	if err := resolver.Close(); err != nil {
		return nil, err
	}
	p.decls = typescript.NewDeclarations(resolver.Cache().Declarations())
	return p, nil
}

// emit renders and writes every unit, bounded by cfg.Workers.
// Cancellation is checked between units.
func (s *settings) emit(ctx context.Context, log *zap.SugaredLogger, cfg *config.Config, p *plan, w *output.Writer, result *typegen.Result) error {
	gen := typescript.NewGenerator(typescript.Options{
		Layout:  s.layout,
		Schemas: cfg.Schemas.Enabled,
		Newline: s.newline,
	})
	clientOpts := client.Options{
		Layout:  s.layout,
		Schemas: cfg.Schemas.Enabled,
		Folder:  cfg.Clients.Folder,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)

	unit := func(rel string, render func() (string, error)) {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			text, err := render()
			if err != nil {
				return err
			}
			return write(egCtx, log, w, result, rel, text)
		})
	}

	for _, o := range p.decls.All() {
		o := o
		unit(s.layout.File(o.Identity), func() (string, error) {
			return gen.Generate(o, p.decls)
		})
	}

	for _, res := range p.clients {
		res := res
		unit(clientOpts.File(res.Name), func() (string, error) {
			model, err := client.BuildModel(res, p.decls, clientOpts)
			if err != nil {
				return "", err
			}
			if logger.Enabled(logger.OutputRenderModel) {
				logger.ChildLogger(log, logger.FieldClient, res.Name).Debugw("Client render model", "model", model)
			}
			text, err := s.renderer.Render(model)
			if err != nil {
				return "", errors.Wrapf(err, "client %s", res.Name)
			}
			return typescript.Normalize(text, s.newline), nil
		})
	}

	if cfg.Index {
		unit(typescript.IndexFile, func() (string, error) {
			exports := typescript.CollectExports(p.decls.All(), s.layout, cfg.Schemas.Enabled)
			return typescript.GenerateIndex(exports, s.newline), nil
		})
	}

	return eg.Wait()
}

// write stores one file, recording exhausted retries as a per-file failure
func write(ctx context.Context, log *zap.SugaredLogger, w *output.Writer, result *typegen.Result, rel, text string) error {
	full, err := w.Write(ctx, rel, text)
	if err != nil {
		if errors.IsTransientIOError(err) {
			log.Warnw("Giving up on locked file", logger.FieldFile, full, logger.FieldError, err)
			result.AddFailed(full, err)
			return nil
		}
		return err
	}
	log.Infow("Wrote file", logger.FieldFile, full)
	if logger.Enabled(logger.OutputGeneratedText) {
		log.Debugw("Generated text", logger.FieldFile, full, "text", text)
	}
	result.AddWritten(full)
	return nil
}

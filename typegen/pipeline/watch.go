package pipeline

import (
	"context"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/logger"
	"github.com/teranos/contractor/typegen"
)

// LoadFunc reloads the configuration before every watched run
type LoadFunc func() (*config.Config, error)

// ReportFunc receives the outcome of every watched run
type ReportFunc func(*typegen.Result, error)

// Watch regenerates whenever one of paths changes, until ctx is cancelled.
// The caller performs the initial run.
func Watch(ctx context.Context, load LoadFunc, report ReportFunc, paths ...string) error {
	w, err := config.NewWatcher(config.DefaultDebounce, paths...)
	if err != nil {
		return err
	}

	w.OnChange(func() error {
		cfg, err := load()
		if err != nil {
			report(nil, err)
			return err
		}
		result, err := Run(ctx, cfg)
		report(result, err)
		return err
	})
	w.Start()
	logger.Infow("Watching for changes", logger.FieldCount, len(paths))

	<-ctx.Done()
	if err := w.Stop(); err != nil {
		return err
	}
	<-w.Done()
	return nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/yildizm/CovTrack/internal/config"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/dataset"
	"github.com/yildizm/CovTrack/internal/logger"
)

// loadDashboard loads the configured datasets and renders the dashboard
// around them. Any failure here aborts the command.
func loadDashboard(ctx context.Context, cfg *config.Config, log *logger.Logger) (*dashboard.Dashboard, error) {
	start := time.Now()
	ds, err := dataset.Load(ctx, cfg.Data.Paths, cfg.Data.LoadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	d, err := dashboard.New(ds, cfg.Map, log)
	if err != nil {
		return nil, err
	}
	log.InfoWithFields("Dataset loaded", []logger.Field{
		logger.F("regions", len(ds.Regions)),
		logger.F("days", len(ds.Daily)),
		logger.F("boundaries", len(ds.Boundaries)),
		logger.Duration(time.Since(start)),
	})
	return d, nil
}

// newReloader returns a watcher that rebuilds the dashboard on every
// successful reload and hands it to publish.
func newReloader(cfg *config.Config, log *logger.Logger, publish func(*dashboard.Dashboard)) *dataset.Watcher {
	return dataset.NewWatcher(cfg.Data.Paths, func(ds *dataset.Dataset) {
		d, err := dashboard.New(ds, cfg.Map, log)
		if err != nil {
			log.ErrorWithFields("Failed to rebuild dashboard, keeping previous one", []logger.Field{logger.Error(err)})
			return
		}
		publish(d)
	}, log, cfg.Data.LoadOptions()...)
}

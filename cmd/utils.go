package cmd

import (
	"fmt"

	"github.com/rubiojr/setsearch/pkg/app"
	"github.com/rubiojr/setsearch/pkg/config"
	"github.com/rubiojr/setsearch/pkg/log"
	"github.com/rubiojr/setsearch/pkg/metrics"
)

// openApp loads the configuration and builds the search pipeline.
func openApp(configPath string, m *metrics.Metrics) (*app.App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log.SetDebugServices(cfg.Log.DebugServices)
	a, err := app.Open(cfg, m)
	if err != nil {
		return nil, fmt.Errorf("opening search pipeline: %w", err)
	}
	return a, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/setsearch/pkg/api"
	"github.com/rubiojr/setsearch/pkg/app"
	"github.com/rubiojr/setsearch/pkg/config"
	"github.com/rubiojr/setsearch/pkg/log"
	"github.com/rubiojr/setsearch/pkg/metrics"
)

// retireDelay is how long a replaced pipeline stays open for in-flight
// requests after a reload.
const retireDelay = 30 * time.Second

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on, overrides server.listen",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload the configuration when the file changes",
				Value: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("listen"), c.Bool("watch"))
		},
	}
}

func serve(ctx context.Context, configPath, listen string, watch bool) error {
	logger := log.ForService("serve")

	m := metrics.New(nil)
	a, err := openApp(configPath, m)
	if err != nil {
		return err
	}

	cfg := a.Config()
	if listen == "" {
		listen = cfg.Server.Listen
	}

	server := api.NewServer(a, m)
	httpServer := &http.Server{
		Addr:         listen,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	reload := func(cfg *config.Config, err error) {
		if err == nil {
			log.SetDebugServices(cfg.Log.DebugServices)
			var next *app.App
			next, err = app.Open(cfg, m)
			if err == nil {
				old := server.Swap(next)
				time.AfterFunc(retireDelay, func() {
					if err := old.Close(); err != nil {
						logger.Warnf("failed to close previous pipeline: %v", err)
					}
				})
			}
		}
		m.ObserveReload(err)
		if err != nil {
			logger.Errorf("Failed to reload configuration: %v", err)
			return
		}
		logger.Infof("Configuration reloaded successfully")
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if watch {
		if err := config.Watch(serveCtx, configPath, reload); err != nil {
			logger.Warnf("config reload on change disabled: %v", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on http://%s", listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case err, ok := <-errCh:
			server.App().Close()
			if ok {
				return fmt.Errorf("web server: %w", err)
			}
			return nil
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Infof("Received SIGHUP, reloading configuration...")
				reload(config.LoadConfig(configPath))
				continue
			}

			fmt.Println("\nShutting down...")
			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			err := httpServer.Shutdown(shutdownCtx)
			done()
			if cerr := server.App().Close(); cerr != nil {
				logger.Warnf("failed to close pipeline: %v", cerr)
			}
			return err
		}
	}
}

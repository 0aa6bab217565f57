package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/setsearch/pkg/config"
	"github.com/rubiojr/setsearch/pkg/query"
	"github.com/rubiojr/setsearch/pkg/storage"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "bootstrap",
				Usage: "Create the SQLite content table and full-text index",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(ctx, c.String("config"), c.Bool("bootstrap"), c.Bool("force"))
		},
	}
}

// initConfig initializes the configuration file
func initConfig(ctx context.Context, configPath string, bootstrap, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Printf("Configuration already exists at %s\n", configPath)
	} else {
		cfg, err := config.GetDefaultConfig()
		if err != nil {
			return fmt.Errorf("creating default config: %w", err)
		}
		if err := cfg.SaveTemplateConfig(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Configuration initialized at %s\n", configPath)
	}

	if !bootstrap {
		return nil
	}
	return bootstrapDatabase(ctx, configPath)
}

func bootstrapDatabase(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Database.Driver != "sqlite3" {
		return fmt.Errorf("bootstrap only supports the sqlite3 driver, got %q", cfg.Database.Driver)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	store, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN, query.SQLite, cfg.Schema)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := storage.BootstrapSQLite(ctx, store.DB(), store.Schema()); err != nil {
		return err
	}
	fmt.Printf("Database ready at %s\n", cfg.Database.DSN)
	return nil
}

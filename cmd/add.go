package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/setsearch/pkg/config"
	"github.com/rubiojr/setsearch/pkg/query"
	"github.com/rubiojr/setsearch/pkg/storage"
)

// AddCommand creates the add command
func AddCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a content item to the SQLite store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Usage: "Content type", Required: true},
			&cli.StringFlag{Name: "title", Usage: "Title", Required: true},
			&cli.StringFlag{Name: "body", Usage: "Body (markdown)"},
			&cli.StringFlag{Name: "excerpt", Usage: "Excerpt"},
			&cli.StringFlag{Name: "slug", Usage: "URL slug"},
			&cli.StringFlag{Name: "status", Usage: "Publication status", Value: "publish"},
			&cli.StringFlag{Name: "thumbnail", Usage: "Thumbnail path or URL"},
			&cli.StringFlag{Name: "permalink", Usage: "Permalink"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return addRecord(ctx, c.String("config"), storage.Record{
				ContentType: c.String("type"),
				Title:       c.String("title"),
				Body:        c.String("body"),
				Excerpt:     c.String("excerpt"),
				Slug:        c.String("slug"),
				Status:      c.String("status"),
				Thumbnail:   c.String("thumbnail"),
				Permalink:   c.String("permalink"),
			})
		},
	}
}

func addRecord(ctx context.Context, configPath string, r storage.Record) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Database.Driver != "sqlite3" {
		return fmt.Errorf("add only supports the sqlite3 driver, got %q", cfg.Database.Driver)
	}

	store, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN, query.SQLite, cfg.Schema)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := storage.InsertSQLite(ctx, store.DB(), store.Schema(), r)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s %d\n", r.ContentType, id)
	return nil
}

// cmd/seed/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Roxeraf/pfep/internal/catalog/postgres"
	"github.com/Roxeraf/pfep/internal/config"
	"github.com/Roxeraf/pfep/internal/ingest"
	"github.com/Roxeraf/pfep/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "file",
		Usage:    "Catalog file to load (.xlsx or .csv)",
		Required: true,
	}
}

func seedParts(c *cli.Context) error {
	db, err := postgres.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewPartRepository(db)
	if err := repo.EnsureSchema(c.Context); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	path := c.String("file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	header, rows, err := ingest.ReadTable(f, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	records, issues := ingest.MapRows(header, rows)
	for _, issue := range issues {
		log.Printf("row %d: %s (%s=%q)", issue.Row, issue.Reason, issue.Column, issue.Value)
	}

	n, err := repo.UpsertBatch(c.Context, records)
	if err != nil {
		return fmt.Errorf("failed to upsert parts: %w", err)
	}

	log.Printf("seeded %d parts from %s (%d rows skipped or coerced)", n, path, len(issues))
	return nil
}

func newArchiveClient(c *cli.Context) (*storage.S3Client, error) {
	cfg := config.Load()
	if !cfg.Archive.Enabled {
		return nil, fmt.Errorf("archive storage is not enabled (set ARCHIVE_ENABLED=true)")
	}
	return storage.NewS3Client(cfg.Archive)
}

func archivePush(c *cli.Context) error {
	client, err := newArchiveClient(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	key := c.String("key")
	if key == "" {
		key = "exports/" + filepath.Base(path)
	}
	if err := client.UploadObject(c.Context, key, data); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("uploaded %s (%d bytes)", key, len(data))
	return nil
}

func archiveList(c *cli.Context) error {
	client, err := newArchiveClient(c)
	if err != nil {
		return err
	}

	objects, err := client.ListObjects(c.Context, c.String("prefix"))
	if err != nil {
		return fmt.Errorf("failed to list objects: %w", err)
	}
	for _, obj := range objects {
		fmt.Printf("%s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func archivePull(c *cli.Context) error {
	client, err := newArchiveClient(c)
	if err != nil {
		return err
	}

	key := c.String("key")
	dest := c.String("out")
	if dest == "" {
		dest = filepath.Base(key)
	}
	if err := client.DownloadObject(c.Context, key, dest); err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}

	log.Printf("downloaded %s to %s", key, dest)
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the catalog database and manage the export archive",
		Commands: []*cli.Command{
			{
				Name:  "parts",
				Usage: "Load a catalog file into the parts table",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newFileFlag(),
				},
				Action: seedParts,
			},
			{
				Name:  "archive",
				Usage: "Manage archived workbook exports",
				Subcommands: []*cli.Command{
					{
						Name:  "push",
						Usage: "Upload a workbook to the archive bucket",
						Flags: []cli.Flag{
							newFileFlag(),
							&cli.StringFlag{
								Name:  "key",
								Usage: "Object key (defaults to exports/<filename>)",
							},
						},
						Action: archivePush,
					},
					{
						Name:  "list",
						Usage: "List archived objects",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "prefix",
								Usage: "Key prefix to filter by",
								Value: "exports/",
							},
						},
						Action: archiveList,
					},
					{
						Name:  "pull",
						Usage: "Download an archived object",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "key",
								Usage:    "Object key to download",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "out",
								Usage: "Destination path (defaults to the key's base name)",
							},
						},
						Action: archivePull,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

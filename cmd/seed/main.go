// Command seed runs the CSV reconciliation importer against a file on disk.
// It is the scripted counterpart of the HTTP import endpoint, used for
// seeding a fresh database or applying a hand-edited catalog export.
//
//	seed -file poses.csv -operator alice
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/asanahub/poseadmin/internal/config"
	"github.com/asanahub/poseadmin/internal/importer"
	"github.com/asanahub/poseadmin/internal/logging"
	"github.com/asanahub/poseadmin/internal/store"
)

func main() {
	file := flag.String("file", "", "path to the CSV file to import (required)")
	operator := flag.String("operator", "seed", "operator identity recorded on created/updated records")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	data, err := os.ReadFile(*file)
	if err != nil {
		slog.Error("failed to read file", "file", *file, "error", err)
		os.Exit(1)
	}

	rows, err := importer.RowsFromCSV(data)
	if err != nil {
		slog.Error("failed to parse CSV", "file", *file, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := store.EnsureSchema(ctx, pool); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	imp := importer.New(store.New(pool))

	runCtx, cancel := context.WithTimeout(ctx, cfg.Import.Timeout)
	defer cancel()

	result, err := imp.Run(runCtx, rows, *operator)
	if err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}

	for _, re := range result.Errors {
		slog.Warn("row failed", "row", re.Row, "error", re.Error)
	}
	slog.Info("import finished",
		"file", *file,
		"success", result.Success,
		"failed", result.Failed,
		"updated", result.Updated,
		"created", result.Created,
	)

	if result.Failed > 0 {
		os.Exit(1)
	}
}

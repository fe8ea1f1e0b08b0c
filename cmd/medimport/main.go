// Command medimport runs the catalog CSV import as a standalone batch job:
// it streams rows through the normalizer and upserts them into the
// configured store, printing the final tally.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medisearch/backend/config"
	"github.com/medisearch/backend/internal/importer"
	"github.com/medisearch/backend/internal/infrastructure/mongodb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "medimport",
		Usage: "import a medicine catalog CSV into the store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "env file path",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:     "csv",
				Usage:    "path to the catalog CSV",
				Required: true,
			},
		},
		Action: runImport,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatalf("import failed: %v", err)
	}
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	// Missing env file is fine: configuration falls back to process env
	// and defaults.
	_ = godotenv.Load(cmd.String("env"))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Store.MongoURI))
	if err != nil {
		return fmt.Errorf("connecting to mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(connectCtx, nil); err != nil {
		return fmt.Errorf("pinging mongo: %w", err)
	}

	store := mongodb.NewStore(client.Database(cfg.Store.Database))
	if err := store.EnsureIndexes(connectCtx); err != nil {
		log.Printf("WARNING: index creation failed: %v", err)
	}

	stats, err := importer.New(store).Run(ctx, cmd.String("csv"))
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d of %d rows (%d rejected)\n", stats.Imported, stats.Total, stats.Rejected)
	return nil
}

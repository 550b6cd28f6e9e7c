// Command seed loads record files into the table store and publishes the
// flight schedule used by transport plans and the flight tool.
//
//	seed -donors donors.json -hospitals hospitals.json -flights flights.json
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"organmatch/internal/config"
	"organmatch/internal/platform/objectstore"
	"organmatch/internal/seed"
	"organmatch/internal/store"
)

func main() {
	donors := flag.String("donors", "", "JSON array of donor records")
	recipients := flag.String("recipients", "", "JSON array of recipient records")
	hospitals := flag.String("hospitals", "", "JSON array of hospital records")
	flights := flag.String("flights", "", "JSON array of flight records to upload")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	ctx := context.Background()

	files := map[string]string{store.Donors: *donors, store.Recipients: *recipients, store.Hospitals: *hospitals}
	if *donors != "" || *recipients != "" || *hospitals != "" {
		tables, err := store.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			logger.Error("open table store", "error", err)
			os.Exit(1)
		}
		defer tables.Close()
		if err := tables.Migrate(cfg.MigrationsPath); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		for _, table := range []string{store.Hospitals, store.Donors, store.Recipients} {
			path := files[table]
			if path == "" {
				continue
			}
			if err := loadRecords(ctx, tables, table, path); err != nil {
				logger.Error("seed table", "table", table, "path", path, "error", err)
				os.Exit(1)
			}
			logger.Info("table seeded", "table", table, "driver", tables.Driver())
		}
	}

	if *flights != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("load aws config", "error", err)
			os.Exit(1)
		}
		objects := objectstore.New(awsCfg, objectstore.Options{Endpoint: cfg.S3Endpoint, PathStyle: cfg.S3PathStyle})
		f, err := os.Open(*flights)
		if err != nil {
			logger.Error("open flights", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		n, err := seed.Flights(ctx, objects, cfg.FlightBucket, cfg.FlightKey, f)
		if err != nil {
			logger.Error("upload flights", "error", err)
			os.Exit(1)
		}
		logger.Info("flights uploaded", "count", n, "bucket", cfg.FlightBucket, "key", cfg.FlightKey)
	}
}

func loadRecords(ctx context.Context, tables *store.TableStore, table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = seed.Records(ctx, tables, table, f)
	return err
}

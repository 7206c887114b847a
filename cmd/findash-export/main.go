// findash-export dumps the local research history to a Parquet file for
// offline analysis.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"findash/internal/config"
	"findash/internal/store"
	"findash/internal/util"
)

func main() {
	configPath := flag.String("config", os.Getenv("FINDASH_CONFIG"), "path to YAML config file")
	out := flag.String("out", "research-history.parquet", "output Parquet file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := util.NewLogger(os.Stderr, cfg.Logging.Level, "json")

	history, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening history store: %v\n", err)
		os.Exit(1)
	}
	defer history.Close()

	recs, err := history.AllResearch(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading history: %v\n", err)
		os.Exit(1)
	}
	if len(recs) == 0 {
		logger.Warn("no research history to export", "db", cfg.Storage.SQLitePath)
	}

	if err := store.ExportParquet(*out, recs); err != nil {
		fmt.Fprintf(os.Stderr, "writing parquet: %v\n", err)
		os.Exit(1)
	}
	logger.Info("exported research history", "records", len(recs), "out", *out)
	fmt.Printf("exported %d records to %s\n", len(recs), *out)
}

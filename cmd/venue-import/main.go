// Command venue-import loads venues and their machines from a JSON file.
//
//	venue-import -file venues.json [-default-region new-territories] [-dry-run]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/hk-arcade-map/api-go/config"
	"github.com/hk-arcade-map/api-go/logger"
	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/gorm"
)

func main() {
	file := flag.String("file", "", "path to the JSON venue list")
	defaultRegion := flag.String("default-region", "", "region for venues the classifier cannot place")
	dryRun := flag.Bool("dry-run", false, "classify and report without writing")
	flag.Parse()

	logger.Setup(logger.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})
	l := logger.L()

	fallback, err := parseDefaultRegion(*defaultRegion)
	if err != nil || *file == "" {
		fmt.Fprintln(os.Stderr, "usage: venue-import -file venues.json [-default-region hong-kong-island|kowloon|new-territories] [-dry-run]")
		os.Exit(2)
	}

	records, err := readRecords(*file)
	if err != nil {
		l.Error().Err(err).Str("file", *file).Msg("read_error")
		os.Exit(1)
	}

	var db *gorm.DB
	if !*dryRun {
		dbCfg, err := config.LoadDatabase()
		if err != nil {
			l.Error().Err(err).Msg("config_error")
			os.Exit(1)
		}
		if db, err = config.InitDB(dbCfg); err != nil {
			l.Error().Err(err).Msg("db_open_error")
			os.Exit(1)
		}
	}

	summary, err := importVenues(context.Background(), db, records, fallback, *dryRun)
	if err != nil {
		l.Error().Err(err).Msg("import_error")
		os.Exit(1)
	}
	l.Info().
		Int("venues", summary.Created).
		Int("skipped", summary.Skipped).
		Int("machines", summary.Machines).
		Int("classified", summary.Classified).
		Int("defaulted", summary.Defaulted).
		Int("unset", summary.Unset).
		Bool("dry_run", *dryRun).
		Msg("venue_import_done")
}

func parseDefaultRegion(s string) (types.Region, error) {
	if s == "" {
		return "", nil
	}
	r, ok := types.ParseRegion(s)
	if !ok {
		return "", fmt.Errorf("unknown region %q", s)
	}
	return r, nil
}

func readRecords(path string) ([]venueRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []venueRecord
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

// Command region-backfill tags existing venues with a region using the
// keyword classifier.
//
//	region-backfill            # only venues with no region
//	region-backfill -all       # re-run on every venue
//	region-backfill -dry-run   # report without writing
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hk-arcade-map/api-go/config"
	"github.com/hk-arcade-map/api-go/logger"
	_ "github.com/lib/pq"
)

func main() {
	all := flag.Bool("all", false, "reclassify venues that already have a region")
	dryRun := flag.Bool("dry-run", false, "log the changes without writing them")
	flag.Parse()

	logger.Setup(logger.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})
	l := logger.L()

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		l.Error().Err(err).Msg("config_error")
		os.Exit(1)
	}
	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		l.Error().Err(err).Msg("db_open_error")
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	venues, err := loadVenues(ctx, db, *all)
	if err != nil {
		l.Error().Err(err).Msg("load_venues_error")
		os.Exit(1)
	}

	updates, stats := planUpdates(venues, *all)
	for _, u := range updates {
		l.Info().Uint64("venue_id", u.ID).Str("name", u.Name).Str("from", u.From).Str("to", string(u.To)).Str("keyword", u.Keyword).Msg("region_change")
	}

	if !*dryRun {
		if err := applyUpdates(ctx, db, updates); err != nil {
			l.Error().Err(err).Msg("apply_updates_error")
			os.Exit(1)
		}
	}
	l.Info().
		Int("scanned", stats.Scanned).
		Int("updated", stats.Updated).
		Int("unchanged", stats.Unchanged).
		Int("unmatched", stats.Unmatched).
		Bool("dry_run", *dryRun).
		Msg("region_backfill_done")
}

func loadVenues(ctx context.Context, db *sql.DB, all bool) ([]venueRow, error) {
	q := `SELECT id, name, COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(region, '')
	      FROM venues WHERE deleted_at IS NULL`
	if !all {
		q += ` AND (region IS NULL OR region = '')`
	}
	q += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []venueRow
	for rows.Next() {
		var v venueRow
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.City, &v.State, &v.Region); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func applyUpdates(ctx context.Context, db *sql.DB, updates []regionUpdate) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE venues SET region = $1, updated_at = now() WHERE id = $2`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, string(u.To), u.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

package main

import "github.com/hk-arcade-map/api-go/types"

type venueRow struct {
	ID      uint64
	Name    string
	Address string
	City    string
	State   string
	Region  string
}

type regionUpdate struct {
	ID      uint64
	Name    string
	From    string
	To      types.Region
	Keyword string
}

type backfillStats struct {
	Scanned   int
	Updated   int
	Unchanged int
	Unmatched int
}

// planUpdates classifies every row. Venues the classifier cannot place keep
// whatever region they have, so a manual tag is never wiped.
func planUpdates(rows []venueRow, all bool) ([]regionUpdate, backfillStats) {
	var (
		updates []regionUpdate
		stats   backfillStats
	)
	for _, v := range rows {
		stats.Scanned++
		if !all && v.Region != "" {
			stats.Unchanged++
			continue
		}

		m := types.MatchRegion(types.RegionInput{Name: v.Name, Address: v.Address, City: v.City, State: v.State})
		switch {
		case !m.Matched:
			stats.Unmatched++
		case string(m.Region) == v.Region:
			stats.Unchanged++
		default:
			stats.Updated++
			updates = append(updates, regionUpdate{ID: v.ID, Name: v.Name, From: v.Region, To: m.Region, Keyword: m.Keyword})
		}
	}
	return updates, stats
}

package main

import (
	"testing"

	"github.com/hk-arcade-map/api-go/types"
)

func TestPlanUpdates(t *testing.T) {
	rows := []venueRow{
		{ID: 1, Name: "A", Address: "太古城中心第二期103B舖"},
		{ID: 2, Name: "B", Address: "旺角朗豪坊13樓", Region: "kowloon"},
		{ID: 3, Name: "C", Address: "123 Main St"},
		{ID: 4, Name: "D", Address: "將軍澳新都城", Region: "kowloon"},
		{ID: 5, Name: "E", Address: "Nowhere", Region: "hong-kong-island"},
	}

	updates, stats := planUpdates(rows, false)
	if len(updates) != 1 || updates[0].ID != 1 || updates[0].To != types.RegionHongKongIsland {
		t.Errorf("missing-only updates = %+v", updates)
	}
	if stats.Scanned != 5 || stats.Updated != 1 || stats.Unmatched != 1 || stats.Unchanged != 3 {
		t.Errorf("missing-only stats = %+v", stats)
	}

	updates, stats = planUpdates(rows, true)
	if len(updates) != 2 {
		t.Fatalf("all updates = %+v", updates)
	}
	if updates[1].ID != 4 || updates[1].From != "kowloon" || updates[1].To != types.RegionNewTerritories {
		t.Errorf("reclassified row = %+v", updates[1])
	}
	// row 5 has no keyword and keeps its manual tag
	if stats.Updated != 2 || stats.Unmatched != 2 || stats.Unchanged != 1 {
		t.Errorf("all stats = %+v", stats)
	}
}

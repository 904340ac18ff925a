package main

import (
	"context"
	"testing"

	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/testutil"
	"github.com/hk-arcade-map/api-go/types"
)

func TestResolveRegion(t *testing.T) {
	tests := []struct {
		name       string
		rec        venueRecord
		fallback   types.Region
		want       types.Region
		wantSource string
	}{
		{"explicit region wins", venueRecord{Address: "旺角", Region: "new-territories"}, "", types.RegionNewTerritories, "record"},
		{"invalid explicit region ignored", venueRecord{Address: "旺角", Region: "macau"}, "", types.RegionKowloon, "classifier"},
		{"classifier", venueRecord{Address: "太古城中心"}, types.RegionKowloon, types.RegionHongKongIsland, "classifier"},
		{"fallback", venueRecord{Address: "Somewhere"}, types.RegionKowloon, types.RegionKowloon, "default"},
		{"unset", venueRecord{Address: "Somewhere"}, "", "", "unset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source := resolveRegion(tt.rec, tt.fallback)
			if got != tt.want || source != tt.wantSource {
				t.Errorf("resolveRegion = (%q, %q), want (%q, %q)", got, source, tt.want, tt.wantSource)
			}
		})
	}
}

func TestImportVenues(t *testing.T) {
	db := testutil.NewSQLite(t)
	records := []venueRecord{
		{
			Name:    "Game Zone Langham",
			Address: "旺角朗豪坊13樓",
			Tags:    []string{"maimai", "taiko"},
			Machines: []machineRecord{
				{Name: "maimai DX", Genre: "rhythm", Quantity: 4},
				{Name: "Taiko no Tatsujin"},
			},
		},
		{Name: "Jump Park", Address: "Unit 5, Industrial Building", Category: "trampoline-park"},
		{Name: ""},
	}

	summary, err := importVenues(context.Background(), db, records, types.RegionNewTerritories, false)
	if err != nil {
		t.Fatalf("importVenues: %v", err)
	}
	if summary.Created != 2 || summary.Skipped != 1 || summary.Machines != 2 || summary.Classified != 1 || summary.Defaulted != 1 {
		t.Errorf("summary = %+v", summary)
	}

	var venue models.Venue
	db.Where("name = ?", "Game Zone Langham").First(&venue)
	if venue.Region != types.RegionKowloon || venue.Analytics.MachineCount != 2 || len(venue.Tags) != 2 {
		t.Errorf("imported venue = %+v", venue)
	}

	var jump models.Venue
	db.Where("name = ?", "Jump Park").First(&jump)
	if jump.Region != types.RegionNewTerritories || jump.Category != "trampoline-park" {
		t.Errorf("fallback venue = %+v", jump)
	}

	// a second run skips what is already there
	summary, err = importVenues(context.Background(), db, records[:2], "", false)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if summary.Created != 0 || summary.Skipped != 2 {
		t.Errorf("second summary = %+v", summary)
	}
}

func TestImportVenues_DryRun(t *testing.T) {
	summary, err := importVenues(context.Background(), nil, []venueRecord{{Name: "X", Address: "沙田"}}, "", true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if summary.Created != 1 || summary.Classified != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

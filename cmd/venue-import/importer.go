package main

import (
	"context"
	"strings"

	"github.com/hk-arcade-map/api-go/logger"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/services"
	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type machineRecord struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Genre    string `json:"genre"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type venueRecord struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Region       string          `json:"region"`
	Category     string          `json:"category"`
	Phone        string          `json:"phone"`
	Website      string          `json:"website"`
	OpeningHours string          `json:"openingHours"`
	Tags         []string        `json:"tags"`
	Machines     []machineRecord `json:"machines"`
}

type importSummary struct {
	Created    int
	Skipped    int
	Machines   int
	Classified int
	Defaulted  int
	Unset      int
}

// resolveRegion prefers a valid region in the record, then the classifier,
// then the fallback. source names which one decided.
func resolveRegion(rec venueRecord, fallback types.Region) (types.Region, string) {
	if r, ok := types.ParseRegion(rec.Region); ok {
		return r, "record"
	}
	if r, ok := types.ClassifyRegion(types.RegionInput{Name: rec.Name, Address: rec.Address, City: rec.City, State: rec.State}); ok {
		return r, "classifier"
	}
	if fallback != "" {
		return fallback, "default"
	}
	return "", "unset"
}

func (rec venueRecord) toVenue(region types.Region) models.Venue {
	category := rec.Category
	if category == "" {
		category = string(types.CategoryArcade)
	}
	return models.Venue{
		Name:         strings.TrimSpace(rec.Name),
		Description:  rec.Description,
		Address:      strings.TrimSpace(rec.Address),
		City:         rec.City,
		State:        rec.State,
		Latitude:     rec.Latitude,
		Longitude:    rec.Longitude,
		Region:       region,
		Category:     category,
		Phone:        rec.Phone,
		Website:      rec.Website,
		OpeningHours: rec.OpeningHours,
		Tags:         datatypes.JSONSlice[string](rec.Tags),
	}
}

// importVenues inserts every record not already present by name and address.
// db may be nil for a dry run.
func importVenues(ctx context.Context, db *gorm.DB, records []venueRecord, fallback types.Region, dryRun bool) (importSummary, error) {
	var summary importSummary
	var svc *services.Service
	if db != nil {
		svc = services.New(db, nil)
	}

	for _, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			summary.Skipped++
			continue
		}

		region, source := resolveRegion(rec, fallback)
		switch source {
		case "classifier":
			summary.Classified++
		case "default":
			summary.Defaulted++
		case "unset":
			summary.Unset++
			logger.Warn().Str("name", rec.Name).Str("address", rec.Address).Msg("region_unmatched")
		}

		if dryRun {
			logger.Info().Str("name", rec.Name).Str("region", string(region)).Str("source", source).Msg("venue_planned")
			summary.Created++
			summary.Machines += len(rec.Machines)
			continue
		}

		venue := rec.toVenue(region)
		var existing int64
		if err := db.WithContext(ctx).Model(&models.Venue{}).Where("name = ? AND address = ?", venue.Name, venue.Address).Count(&existing).Error; err != nil {
			return summary, err
		}
		if existing > 0 {
			summary.Skipped++
			continue
		}
		if err := db.WithContext(ctx).Create(&venue).Error; err != nil {
			return summary, err
		}
		summary.Created++

		for _, m := range rec.Machines {
			machine := models.Machine{VenueID: venue.ID, Name: m.Name, Brand: m.Brand, Genre: m.Genre, Quantity: m.Quantity, Notes: m.Notes}
			if machine.Quantity <= 0 {
				machine.Quantity = 1
			}
			if machine.Genre == "" {
				machine.Genre = "other"
			}
			if err := svc.CreateMachine(ctx, &machine); err != nil {
				return summary, err
			}
			summary.Machines++
		}
	}
	return summary, nil
}

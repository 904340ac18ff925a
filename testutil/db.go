// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"testing"

	"github.com/hk-arcade-map/api-go/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewSQLite returns a migrated in-memory database private to the test.
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given role.
func CreateUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Role: role, Provider: "email", AccountStatus: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateVenue inserts a venue; the region is classified from the address.
func CreateVenue(t *testing.T, db *gorm.DB, name, address string, lat, lng float64) *models.Venue {
	t.Helper()
	venue := &models.Venue{Name: name, Address: address, Latitude: lat, Longitude: lng, Category: "arcade"}
	if err := db.Create(venue).Error; err != nil {
		t.Fatalf("create venue: %v", err)
	}
	return venue
}

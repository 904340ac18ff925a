package models

import "gorm.io/gorm"

// Migrate creates or updates every table the API owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Venue{},
		&Machine{},
		&Photo{},
		&Comment{},
		&CheckIn{},
		&PointLog{},
	)
}

package types

import "math"

// Points awarded per user action.
const (
	PHOTO_UPLOAD_POINTS     = 10
	CHECK_IN_POINTS         = 5
	COMMENT_APPROVED_POINTS = 3
	RATING_BONUS_POINTS     = 2
	POINTS_PER_LEVEL        = 100
)

// Action names recorded in the point log.
const (
	ActionPhotoUpload     = "photo_uploaded"
	ActionCheckIn         = "venue_checked_in"
	ActionCommentApproved = "comment_approved"
)

type PointsConfig struct {
	PhotoUploadPoints     int
	CheckInPoints         int
	CommentApprovedPoints int
	RatingBonusPoints     int
	PointsPerLevel        int
}

func GetPointsConfig() PointsConfig {
	return PointsConfig{
		PhotoUploadPoints:     PHOTO_UPLOAD_POINTS,
		CheckInPoints:         CHECK_IN_POINTS,
		CommentApprovedPoints: COMMENT_APPROVED_POINTS,
		RatingBonusPoints:     RATING_BONUS_POINTS,
		PointsPerLevel:        POINTS_PER_LEVEL,
	}
}

// PointsForAction returns the award for an action, or 0 for an unknown one.
// A comment that carries a rating earns the rating bonus on top.
func PointsForAction(action string, withRating bool) int {
	cfg := GetPointsConfig()
	switch action {
	case ActionPhotoUpload:
		return cfg.PhotoUploadPoints
	case ActionCheckIn:
		return cfg.CheckInPoints
	case ActionCommentApproved:
		if withRating {
			return cfg.CommentApprovedPoints + cfg.RatingBonusPoints
		}
		return cfg.CommentApprovedPoints
	}
	return 0
}

// VenueAnalytics are the engagement counters of a venue.
type VenueAnalytics struct {
	Views         int64   `json:"views" gorm:"not null;default:0"`
	PhotoCount    int64   `json:"photoCount" gorm:"not null;default:0"`
	CheckIns      int64   `json:"checkIns" gorm:"not null;default:0"`
	AverageRating float64 `json:"averageRating" gorm:"not null;default:0"`
	TotalRatings  int64   `json:"totalRatings" gorm:"not null;default:0"`
	MachineCount  int64   `json:"machineCount" gorm:"not null;default:0"`
}

// MachineAnalytics are the engagement counters of a single machine.
type MachineAnalytics struct {
	Views         int64   `json:"views" gorm:"not null;default:0"`
	PhotoCount    int64   `json:"photoCount" gorm:"not null;default:0"`
	AverageRating float64 `json:"averageRating" gorm:"not null;default:0"`
	TotalRatings  int64   `json:"totalRatings" gorm:"not null;default:0"`
}

func nonNegative(v int64) float64 {
	if v < 0 {
		return 0
	}
	return float64(v)
}

func nonNegativeRating(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// VenuePopularity is round(views*0.2 + photoCount*3 + checkIns*2 + averageRating*8).
// A nil snapshot scores 0.
func VenuePopularity(a *VenueAnalytics) int {
	if a == nil {
		return 0
	}
	score := nonNegative(a.Views)*0.2 +
		nonNegative(a.PhotoCount)*3 +
		nonNegative(a.CheckIns)*2 +
		nonNegativeRating(a.AverageRating)*8
	return int(math.Round(score))
}

// MachinePopularity is round(views*0.3 + photoCount*5 + averageRating*10).
// Machines have no check-ins and weigh photos and ratings higher than venues.
func MachinePopularity(a *MachineAnalytics) int {
	if a == nil {
		return 0
	}
	score := nonNegative(a.Views)*0.3 +
		nonNegative(a.PhotoCount)*5 +
		nonNegativeRating(a.AverageRating)*10
	return int(math.Round(score))
}

// LevelForPoints is floor(points/100)+1, never below 1.
func LevelForPoints(points int64) int {
	if points < 0 {
		points = 0
	}
	return int(points/POINTS_PER_LEVEL) + 1
}

type LevelProgress struct {
	Level          int   `json:"level"`
	Points         int64 `json:"points"`
	PointsInLevel  int64 `json:"pointsInLevel"`
	PointsForNext  int64 `json:"pointsForNext"`
	NextLevelAt    int64 `json:"nextLevelAt"`
	PercentToLevel int   `json:"percentToLevel"`
}

func GetLevelProgress(points int64) LevelProgress {
	if points < 0 {
		points = 0
	}
	level := LevelForPoints(points)
	into := points % POINTS_PER_LEVEL
	return LevelProgress{
		Level:          level,
		Points:         points,
		PointsInLevel:  into,
		PointsForNext:  POINTS_PER_LEVEL - into,
		NextLevelAt:    int64(level) * POINTS_PER_LEVEL,
		PercentToLevel: int(into * 100 / POINTS_PER_LEVEL),
	}
}

package types

type VenueCategory string

const (
	CategoryArcade         VenueCategory = "arcade"
	CategoryTrampolinePark VenueCategory = "trampoline-park"
	CategoryMixed          VenueCategory = "mixed"
)

type NearbyVenuesRequest struct {
	Latitude  float64 `form:"latitude" binding:"required,latitude"`
	Longitude float64 `form:"longitude" binding:"required,longitude"`
	Radius    float64 `form:"radius" binding:"omitempty,gt=0,lte=50"`
	Region    string  `form:"region" binding:"omitempty,hkregion"`
	MaxPlaces int     `form:"maxPlaces" binding:"omitempty,min=1,max=200"`
}

type ListVenuesRequest struct {
	Region   string `form:"region" binding:"omitempty,hkregion"`
	Category string `form:"category" binding:"omitempty,oneof=arcade trampoline-park mixed"`
	Query    string `form:"q"`
	SortBy   string `form:"sortBy" binding:"omitempty,oneof=popularity newest name"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// Marker is the slim venue shape the map client renders.
type Marker struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Region     Region  `json:"region,omitempty"`
	Category   string  `json:"category"`
	Popularity int     `json:"popularity"`
	Distance   float64 `json:"distance"`
}

type NearbyVenuesResponse struct {
	Markers []Marker `json:"markers"`
	Filters struct {
		Radius float64 `json:"radius"`
		Region string  `json:"region,omitempty"`
	} `json:"filters"`
}

type RegionSummary struct {
	Region     Region `json:"region"`
	Chinese    string `json:"nameZh"`
	English    string `json:"nameEn"`
	VenueCount int64  `json:"venueCount"`
}

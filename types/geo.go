package types

import "math"

const earthRadiusKm = 6371.0

// CalculateDistance returns the haversine distance between two points in kilometres.
func CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lng1Rad := lng1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lng2Rad := lng2 * math.Pi / 180.0

	dlat := lat2Rad - lat1Rad
	dlng := lng2Rad - lng1Rad

	a := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox is a lat/lng rectangle used to prefilter a radius search in SQL
// before the exact haversine check.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func BoundingBoxAround(lat, lng, radiusKm float64) BoundingBox {
	dLat := radiusKm / earthRadiusKm * 180.0 / math.Pi
	cos := math.Cos(lat * math.Pi / 180.0)
	if cos < 0.01 {
		cos = 0.01
	}
	dLng := dLat / cos
	return BoundingBox{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
		MinLng: lng - dLng,
		MaxLng: lng + dLng,
	}
}

// HasCoordinates treats 0,0 as "not geocoded".
func HasCoordinates(lat, lng float64) bool {
	return lat != 0 || lng != 0
}

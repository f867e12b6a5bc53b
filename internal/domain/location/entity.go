package location

import "github.com/cmlabs-hris/shift-attendance-go/internal/pkg/utils"

type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  *float64 // metres, when the device reports it
}

// Valid reports whether the coordinates are on the globe.
func (p Position) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// DistanceTo returns the great-circle distance in metres.
func (p Position) DistanceTo(other Position) float64 {
	return utils.CalculateHaversineDistance(p.Latitude, p.Longitude, other.Latitude, other.Longitude)
}

// Site is an optional work-site geofence.
type Site struct {
	Center       Position
	RadiusMeters float64
}

// Contains reports whether p lies within the site radius.
func (s Site) Contains(p Position) bool {
	return p.DistanceTo(s.Center) <= s.RadiusMeters
}

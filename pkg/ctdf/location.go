package ctdf

import "math"

const earthRadiusMeters = 6371008.8

type Location struct {
	Type        string    `json:"-" groups:"basic"`
	Coordinates []float64 `json:"coordinates" groups:"basic"`
}

// NewLocation builds a GeoJSON point, which stores longitude first
func NewLocation(latitude float64, longitude float64) *Location {
	return &Location{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

func (l *Location) Latitude() float64 {
	return l.Coordinates[1]
}

func (l *Location) Longitude() float64 {
	return l.Coordinates[0]
}

// Distance is the great circle distance in meters
func (l *Location) Distance(other *Location) float64 {
	lat1 := l.Latitude() * math.Pi / 180
	lat2 := other.Latitude() * math.Pi / 180
	deltaLat := lat2 - lat1
	deltaLon := (other.Longitude() - l.Longitude()) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Package geofence decides whether a reported position is close enough to the
// office for attendance to be recorded.
package geofence

import (
	"errors"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000

var (
	ErrLocationRequired = errors.New("location access is required to mark attendance")
	ErrInvalidOffice    = errors.New("invalid office location")
)

type WorkMode string

const (
	WorkModeOffice WorkMode = "office"
	WorkModeRemote WorkMode = "remote"
	WorkModeField  WorkMode = "field"
)

func (m WorkMode) IsValid() bool {
	switch m {
	case WorkModeOffice, WorkModeRemote, WorkModeField:
		return true
	}
	return false
}

type Point struct {
	Latitude  float64
	Longitude float64
}

// NewPoint builds a Point from optional coordinates. Both must be present.
func NewPoint(lat, lon *float64) (Point, error) {
	if lat == nil || lon == nil {
		return Point{}, ErrLocationRequired
	}
	return Point{Latitude: *lat, Longitude: *lon}, nil
}

type Result struct {
	WithinRange    bool `json:"within_range"`
	DistanceMeters int  `json:"distance_meters"`
}

type Office struct {
	Center       Point
	RadiusMeters float64
}

func NewOffice(lat, lon, radiusMeters float64) (Office, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 || radiusMeters <= 0 {
		return Office{}, ErrInvalidOffice
	}
	return Office{
		Center:       Point{Latitude: lat, Longitude: lon},
		RadiusMeters: radiusMeters,
	}, nil
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	// rounding can push h a hair past 1 for antipodal points
	h = math.Min(1, h)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Check measures p against the office. The radius is only enforced for
// office-based employees; remote and field staff are always in range.
func (o Office) Check(p Point, mode WorkMode) Result {
	d := Distance(o.Center, p)
	res := Result{
		WithinRange:    d <= o.RadiusMeters,
		DistanceMeters: int(math.Round(d)),
	}
	if mode == WorkModeRemote || mode == WorkModeField {
		res.WithinRange = true
	}
	return res
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

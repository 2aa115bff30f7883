package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is wrapped by MissingFieldError.
	ErrMissingField = errors.New("missing field")
	// ErrAmbiguousLocation reports a location mixing {lat, lon} and
	// {latitude, longitude} fields.
	ErrAmbiguousLocation = errors.New("location mixes lat/lon and latitude/longitude fields")
)

// MissingFieldError names a required field that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// ResolveLocation extracts canonical coordinates from either location
// spelling. Exactly one convention must be fully present.
func ResolveLocation(loc RawLocation) (Coordinates, error) {
	short := loc.Lat != nil || loc.Lon != nil
	long := loc.Latitude != nil || loc.Longitude != nil

	switch {
	case short && long:
		return Coordinates{}, ErrAmbiguousLocation
	case short:
		if loc.Lat == nil {
			return Coordinates{}, &MissingFieldError{Field: "lat"}
		}
		if loc.Lon == nil {
			return Coordinates{}, &MissingFieldError{Field: "lon"}
		}
		return Coordinates{Lat: *loc.Lat, Lon: *loc.Lon}, nil
	case long:
		if loc.Latitude == nil {
			return Coordinates{}, &MissingFieldError{Field: "latitude"}
		}
		if loc.Longitude == nil {
			return Coordinates{}, &MissingFieldError{Field: "longitude"}
		}
		return Coordinates{Lat: *loc.Latitude, Lon: *loc.Longitude}, nil
	default:
		return Coordinates{}, &MissingFieldError{Field: "lat"}
	}
}

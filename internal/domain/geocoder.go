package domain

import (
	"context"
	"errors"
	"strings"
)

// ErrInsufficientAddress is returned when a geocode request has neither a raw
// address nor at least two address parts.
var ErrInsufficientAddress = errors.New("insufficient address: provide rawAddress or at least city and country")

// minAddressParts is the number of structured parts required without a raw
// address.
const minAddressParts = 2

// GeocodeInput is a free-form address, either raw or split into parts.
type GeocodeInput struct {
	RawAddress string
	Street     string
	Number     string
	City       string
	PostalCode string
	Country    string
}

// fieldAliases lists accepted request keys per part, in priority order.
var fieldAliases = struct {
	raw, street, number, city, postal, country []string
}{
	raw:     []string{"rawAddress"},
	street:  []string{"rua", "street"},
	number:  []string{"numero", "number"},
	city:    []string{"cidade", "city"},
	postal:  []string{"codigoPostal", "cep", "postalCode"},
	country: []string{"pais", "country", "estado"},
}

// NormalizeGeocodeInput resolves field aliases from a form or query. The first
// non-blank alias wins; values are trimmed.
func NormalizeGeocodeInput(fields map[string]string) GeocodeInput {
	pick := func(keys []string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(fields[k]); v != "" {
				return v
			}
		}
		return ""
	}
	return GeocodeInput{
		RawAddress: pick(fieldAliases.raw),
		Street:     pick(fieldAliases.street),
		Number:     pick(fieldAliases.number),
		City:       pick(fieldAliases.city),
		PostalCode: pick(fieldAliases.postal),
		Country:    pick(fieldAliases.country),
	}
}

// Validate checks the input carries enough to geocode.
func (in GeocodeInput) Validate() error {
	if in.RawAddress != "" {
		return nil
	}
	n := 0
	for _, part := range []string{in.Street, in.City, in.Country, in.PostalCode, in.Number} {
		if part != "" {
			n++
		}
	}
	if n < minAddressParts {
		return ErrInsufficientAddress
	}
	return nil
}

// Address renders the single-line address sent to the provider.
func (in GeocodeInput) Address() string {
	if in.RawAddress != "" {
		return in.RawAddress
	}
	street := in.Street
	if in.Number != "" && in.Street != "" {
		street = in.Number + " " + in.Street
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{street, in.City, in.PostalCode, in.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// GeocodingResult contains the provider's answer for one address.
type GeocodingResult struct {
	Address          string // address as sent to the provider
	FormattedAddress string
	Status           string // provider status, "OK" on success
	ResultsCount     int
	Lat              *float64
	Lng              *float64
}

// OK reports whether the provider accepted the query.
func (r GeocodingResult) OK() bool {
	return r.Status == "" || r.Status == "OK"
}

// HasCoordinates reports whether the first candidate had a location.
func (r GeocodingResult) HasCoordinates() bool {
	return r.Lat != nil && r.Lng != nil
}

// DisplayAddress prefers the provider's formatted address.
func (r GeocodingResult) DisplayAddress() string {
	if r.FormattedAddress != "" {
		return r.FormattedAddress
	}
	return r.Address
}

// Geocoder resolves addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (GeocodingResult, error)
}

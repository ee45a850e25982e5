package geocoding

import "context"

// ReverseGeocoder traduce coordenadas a una dirección legible.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

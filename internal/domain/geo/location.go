package geo

import "math"

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a named location such as a warehouse or hospital.
type Place struct {
	Address string  `json:"address" validate:"required"`
	Lat     float64 `json:"lat" validate:"min=-90,max=90"`
	Lng     float64 `json:"lng" validate:"min=-180,max=180"`
}

// Location returns the coordinates of the place.
func (p Place) Location() Location {
	return Location{Lat: p.Lat, Lng: p.Lng}
}

// Round rounds both axes to the given number of decimal places.
func (l Location) Round(places int) Location {
	return Location{Lat: RoundTo(l.Lat, places), Lng: RoundTo(l.Lng, places)}
}

// RoundTo rounds v half away from zero to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

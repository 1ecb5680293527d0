package model

// PostalCodeLocation is the coordinate pair resolved for a postal code.
// Rows are created on first reference and never change afterwards.
type PostalCodeLocation struct {
	Code      string  `json:"code" db:"code"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

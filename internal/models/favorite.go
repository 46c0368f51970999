package models

// Favorite is a saved location record owned by the backend. The client only
// displays it and never mutates it locally.
type Favorite struct {
	ID    string  `json:"_id"`
	Label string  `json:"label"`
	City  string  `json:"city"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// FavoriteInput is the payload for creating a favorite. Lat/Lon are already
// numeric-coerced by the time this struct is built.
type FavoriteInput struct {
	Label string  `json:"label"`
	City  string  `json:"city"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

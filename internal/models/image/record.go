package models

// Record is the metadata of one stored image as served by GET /images.
type Record struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
}

package models

type RegisterImageRequest struct {
	ID       string `json:"id" binding:"required"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
}

// DefaultCategory is assigned to ingested images that have not been classified yet.
const DefaultCategory = "Uncategorized"

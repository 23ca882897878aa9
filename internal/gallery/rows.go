package gallery

import (
	"strings"

	imagemodels "io.winapps.imagealbum/internal/models/image"
)

// Row describes one rendered table row
type Row struct {
	ID       string
	Category string
	Summary  string
	// AssetURL is both the thumbnail source and the link target
	AssetURL string
	Caption  string
}

// AssetURL returns <assetBase>/<id>
func AssetURL(assetBase, id string) string {
	return strings.TrimRight(assetBase, "/") + "/" + id
}

// BuildRows maps records to rows, preserving order
func BuildRows(assetBase string, records []imagemodels.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{
			ID:       rec.ID,
			Category: rec.Category,
			Summary:  rec.Summary,
			AssetURL: AssetURL(assetBase, rec.ID),
			Caption:  rec.Summary,
		})
	}
	return rows
}

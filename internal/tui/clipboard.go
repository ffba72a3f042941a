package tui

import (
	"fmt"

	"github.com/atotto/clipboard"

	"gardenmap/internal/model"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

func coordinatesText(p model.LatLng) string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lng)
}

package tui

import (
	"strings"

	"gardenmap/internal/mapview"
	"gardenmap/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// minPad keeps a single marker (or markers on one line) from collapsing the projection.
const minPad = 0.0005

// mapFrame is the area the mini map shows: the markers and the cursor, padded by one cell.
type mapFrame struct {
	sw, ne model.LatLng
	w, h   int
}

func newMapFrame(markers []mapview.Marker, cursor model.LatLng, w, h int) mapFrame {
	all := append([]mapview.Marker{{Position: cursor}}, markers...)
	sw, ne, _ := mapview.Bounds(all)
	if ne.Lat-sw.Lat < minPad {
		sw.Lat -= minPad / 2
		ne.Lat += minPad / 2
	}
	if ne.Lng-sw.Lng < minPad {
		sw.Lng -= minPad / 2
		ne.Lng += minPad / 2
	}
	padLat := (ne.Lat - sw.Lat) / float64(max(h, 1))
	padLng := (ne.Lng - sw.Lng) / float64(max(w, 1))
	sw.Lat -= padLat
	sw.Lng -= padLng
	ne.Lat += padLat
	ne.Lng += padLng
	return mapFrame{sw: sw, ne: ne, w: w, h: h}
}

// project returns the cell for p. Row 0 is the northern edge.
func (f mapFrame) project(p model.LatLng) (col, row int, ok bool) {
	if f.w <= 0 || f.h <= 0 {
		return 0, 0, false
	}
	if p.Lat < f.sw.Lat || p.Lat > f.ne.Lat || p.Lng < f.sw.Lng || p.Lng > f.ne.Lng {
		return 0, 0, false
	}
	col = int((p.Lng - f.sw.Lng) / (f.ne.Lng - f.sw.Lng) * float64(f.w-1))
	row = int((f.ne.Lat - p.Lat) / (f.ne.Lat - f.sw.Lat) * float64(f.h-1))
	return col, row, true
}

// renderMiniMap draws markers as colored dots on a w×h grid. The selected marker is drawn larger
// and the cursor is a cross. Markers that share a cell show the last one drawn.
func renderMiniMap(markers []mapview.Marker, cursor model.LatLng, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	frame := newMapFrame(markers, cursor, w, h)
	ground := lipgloss.NewStyle().Foreground(colorMapGround).Render("·")

	cells := make([][]string, h)
	for r := range cells {
		cells[r] = make([]string, w)
		for c := range cells[r] {
			cells[r][c] = ground
		}
	}
	if c, r, ok := frame.project(cursor); ok {
		cells[r][c] = lipgloss.NewStyle().Foreground(colorMapCursor).Bold(true).Render("+")
	}
	for _, mk := range markers {
		c, r, ok := frame.project(mk.Position)
		if !ok {
			continue
		}
		glyph := "●"
		if mk.Selected {
			glyph = "◉"
		}
		cells[r][c] = lipgloss.NewStyle().Foreground(lipgloss.Color(mk.Hex)).Render(glyph)
	}

	lines := make([]string, h)
	for r := range cells {
		lines[r] = strings.Join(cells[r], "")
	}
	return strings.Join(lines, "\n")
}

package tui

import (
	"fmt"
	"strings"

	"gardenmap/internal/model"
)

// plantMarkdown is the detail pane body. Only fields with a value are listed.
func plantMarkdown(p model.Plant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.ScientificName != "" {
		fmt.Fprintf(&b, "*%s*\n\n", p.ScientificName)
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		b.WriteString(d + "\n\n")
	}

	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", label, value)
		}
	}
	row("Type", model.Label(p.Type))
	row("Position", coordinatesText(p.Position))
	if t, ok := p.PlantedDate.Time(); ok {
		row("Planted", t.Format("January 2, 2006"))
	}
	if p.WateringFrequency > 0 {
		row("Watering", wateringText(p.WateringFrequency))
	}
	row("Sunlight", model.Label(p.Sunlight))
	row("Soil", model.Label(p.SoilType))
	if p.Height > 0 {
		row("Height", fmt.Sprintf("%d cm", p.Height))
	}
	if p.Spread > 0 {
		row("Spread", fmt.Sprintf("%d cm", p.Spread))
	}
	row("Blooming", seasonsText(p.SeasonalInfo.Blooming))
	row("Harvest", seasonsText(p.SeasonalInfo.Harvest))
	row("Dormant", seasonsText(p.SeasonalInfo.Dormant))

	if n := strings.TrimSpace(p.Notes); n != "" {
		b.WriteString("\n## Notes\n\n" + n + "\n")
	}
	return b.String()
}

func wateringText(days int) string {
	if days == 1 {
		return "Every day"
	}
	return fmt.Sprintf("Every %d days", days)
}

func seasonsText(ss []model.Season) string {
	parts := make([]string, 0, len(ss))
	for _, s := range ss {
		parts = append(parts, model.Label(s))
	}
	return strings.Join(parts, ", ")
}

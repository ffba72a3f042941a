package model

import (
	"fmt"
	"strings"
)

// Validate checks the plant invariants. It expects a normalized plant (see Normalize).
func Validate(p Plant) error {
	if strings.TrimSpace(p.ID) == "" {
		return ValidationError{Field: "id", Reason: "required"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return ValidationError{Field: "name", Reason: "required"}
	}
	if !p.Type.Valid() {
		return ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", p.Type)}
	}
	if !p.Position.Valid() {
		return ValidationError{Field: "position", Reason: fmt.Sprintf("invalid coordinates (%v, %v)", p.Position.Lat, p.Position.Lng)}
	}
	if p.PlantedDate != "" {
		if _, ok := p.PlantedDate.Time(); !ok {
			return ValidationError{Field: "plantedDate", Reason: fmt.Sprintf("expected YYYY-MM-DD, got %q", p.PlantedDate)}
		}
	}
	if p.WateringFrequency < 1 {
		return ValidationError{Field: "wateringFrequency", Reason: "must be at least 1 day"}
	}
	if !p.Sunlight.Valid() {
		return ValidationError{Field: "sunlight", Reason: fmt.Sprintf("unknown sunlight %q", p.Sunlight)}
	}
	if !p.SoilType.Valid() {
		return ValidationError{Field: "soilType", Reason: fmt.Sprintf("unknown soil type %q", p.SoilType)}
	}
	if p.Height < 0 {
		return ValidationError{Field: "height", Reason: "must not be negative"}
	}
	if p.Spread < 0 {
		return ValidationError{Field: "spread", Reason: "must not be negative"}
	}
	sets := []struct {
		field string
		vals  []Season
	}{
		{"seasonalInfo.bloomingSeason", p.SeasonalInfo.Blooming},
		{"seasonalInfo.harvestSeason", p.SeasonalInfo.Harvest},
		{"seasonalInfo.dormantSeason", p.SeasonalInfo.Dormant},
	}
	for _, set := range sets {
		seen := map[Season]bool{}
		for _, s := range set.vals {
			if !s.Valid() {
				return ValidationError{Field: set.field, Reason: fmt.Sprintf("unknown season %q", s)}
			}
			if seen[s] {
				return ValidationError{Field: set.field, Reason: fmt.Sprintf("duplicate season %q", s)}
			}
			seen[s] = true
		}
	}
	return nil
}

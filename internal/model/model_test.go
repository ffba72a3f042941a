package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlant() Plant {
	p := NewDraft("plant-1", LatLng{Lat: 1, Lng: 1}, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	p.Name = "Oak"
	return p
}

func TestValidate_AcceptsDraftWithName(t *testing.T) {
	require.NoError(t, Validate(Normalize(validPlant())))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *Plant)
		field string
	}{
		{"missing id", func(p *Plant) { p.ID = "" }, "id"},
		{"missing name", func(p *Plant) { p.Name = "  " }, "name"},
		{"bad type", func(p *Plant) { p.Type = "cactus" }, "type"},
		{"lat out of range", func(p *Plant) { p.Position.Lat = 91 }, "position"},
		{"nan lng", func(p *Plant) { p.Position.Lng = math.NaN() }, "position"},
		{"zero watering", func(p *Plant) { p.WateringFrequency = 0 }, "wateringFrequency"},
		{"negative height", func(p *Plant) { p.Height = -1 }, "height"},
		{"negative spread", func(p *Plant) { p.Spread = -5 }, "spread"},
		{"bad sunlight", func(p *Plant) { p.Sunlight = "moonlight" }, "sunlight"},
		{"bad soil", func(p *Plant) { p.SoilType = "gravel" }, "soilType"},
		{"bad date", func(p *Plant) { p.PlantedDate = "April 1st" }, "plantedDate"},
		{"bad season", func(p *Plant) { p.SeasonalInfo.Harvest = []Season{"monsoon"} }, "seasonalInfo.harvestSeason"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlant()
			tc.edit(&p)
			err := Validate(Normalize(p))
			var ve ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestValidate_DuplicateSeasonWithoutNormalize(t *testing.T) {
	p := validPlant()
	p.SeasonalInfo.Blooming = []Season{SeasonSpring, SeasonSpring}
	var ve ValidationError
	require.ErrorAs(t, Validate(p), &ve)
	assert.Equal(t, "seasonalInfo.bloomingSeason", ve.Field)
}

func TestNormalize_SeasonSets(t *testing.T) {
	p := validPlant()
	p.SeasonalInfo = SeasonalInfo{
		Blooming: []Season{"Summer", "spring", "summer"},
		Harvest:  []Season{},
	}
	got := Normalize(p).SeasonalInfo
	assert.Equal(t, []Season{SeasonSpring, SeasonSummer}, got.Blooming)
	assert.Nil(t, got.Harvest)
	assert.Nil(t, got.Dormant)
}

func TestNormalize_FillsEnumDefaultsAndTrims(t *testing.T) {
	p := Normalize(Plant{ID: " plant-2 ", Name: " Basil ", PlantedDate: "2024-05-06T10:00:00Z"})
	assert.Equal(t, "plant-2", p.ID)
	assert.Equal(t, "Basil", p.Name)
	assert.Equal(t, PlantTypeOther, p.Type)
	assert.Equal(t, SunlightFull, p.Sunlight)
	assert.Equal(t, SoilLoamy, p.SoilType)
	assert.Equal(t, Date("2024-05-06"), p.PlantedDate)
}

func TestClone_DoesNotShareSeasons(t *testing.T) {
	p := validPlant()
	p.SeasonalInfo.Dormant = []Season{SeasonWinter}
	c := p.Clone()
	c.SeasonalInfo.Dormant[0] = SeasonSummer
	assert.Equal(t, SeasonWinter, p.SeasonalInfo.Dormant[0])
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Partial Shade", Label(SunlightPartialShade))
	assert.Equal(t, "Tree", Label(PlantTypeTree))
}

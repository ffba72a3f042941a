package model

import (
	"math"
	"strings"
	"time"
)

type PlantType string

const (
	PlantTypeTree      PlantType = "tree"
	PlantTypeShrub     PlantType = "shrub"
	PlantTypeFlower    PlantType = "flower"
	PlantTypeVegetable PlantType = "vegetable"
	PlantTypeFruit     PlantType = "fruit"
	PlantTypeHerb      PlantType = "herb"
	PlantTypeGrass     PlantType = "grass"
	PlantTypeOther     PlantType = "other"
)

// PlantTypes returns every plant type in display order.
func PlantTypes() []PlantType {
	return []PlantType{
		PlantTypeTree,
		PlantTypeShrub,
		PlantTypeFlower,
		PlantTypeVegetable,
		PlantTypeFruit,
		PlantTypeHerb,
		PlantTypeGrass,
		PlantTypeOther,
	}
}

func (t PlantType) Valid() bool {
	for _, v := range PlantTypes() {
		if t == v {
			return true
		}
	}
	return false
}

type Sunlight string

const (
	SunlightFull         Sunlight = "full-sun"
	SunlightPartialShade Sunlight = "partial-shade"
	SunlightFullShade    Sunlight = "full-shade"
)

func SunlightValues() []Sunlight {
	return []Sunlight{SunlightFull, SunlightPartialShade, SunlightFullShade}
}

func (s Sunlight) Valid() bool {
	for _, v := range SunlightValues() {
		if s == v {
			return true
		}
	}
	return false
}

type SoilType string

const (
	SoilClay   SoilType = "clay"
	SoilSandy  SoilType = "sandy"
	SoilLoamy  SoilType = "loamy"
	SoilPeaty  SoilType = "peaty"
	SoilChalky SoilType = "chalky"
	SoilSilty  SoilType = "silty"
)

func SoilTypes() []SoilType {
	return []SoilType{SoilClay, SoilSandy, SoilLoamy, SoilPeaty, SoilChalky, SoilSilty}
}

func (s SoilType) Valid() bool {
	for _, v := range SoilTypes() {
		if s == v {
			return true
		}
	}
	return false
}

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// Seasons returns the four seasons in calendar order. Normalized season sets use this order.
func Seasons() []Season {
	return []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}
}

func (s Season) Valid() bool {
	for _, v := range Seasons() {
		if s == v {
			return true
		}
	}
	return false
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// SeasonalInfo holds three optional season sets. Empty sets are nil so they are omitted on the wire.
type SeasonalInfo struct {
	Blooming []Season `json:"bloomingSeason,omitempty" yaml:"bloomingSeason,omitempty"`
	Harvest  []Season `json:"harvestSeason,omitempty" yaml:"harvestSeason,omitempty"`
	Dormant  []Season `json:"dormantSeason,omitempty" yaml:"dormantSeason,omitempty"`
}

// Normalize drops duplicates, orders each set by calendar order and turns empty sets into nil.
// Unknown values are kept so validation can report them.
func (s SeasonalInfo) Normalize() SeasonalInfo {
	return SeasonalInfo{
		Blooming: normalizeSeasons(s.Blooming),
		Harvest:  normalizeSeasons(s.Harvest),
		Dormant:  normalizeSeasons(s.Dormant),
	}
}

func (s SeasonalInfo) IsZero() bool {
	return len(s.Blooming) == 0 && len(s.Harvest) == 0 && len(s.Dormant) == 0
}

func normalizeSeasons(in []Season) []Season {
	if len(in) == 0 {
		return nil
	}
	seen := map[Season]bool{}
	var unknown []Season
	for _, s := range in {
		s = Season(strings.ToLower(strings.TrimSpace(string(s))))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		if !s.Valid() {
			unknown = append(unknown, s)
		}
	}
	var out []Season
	for _, s := range Seasons() {
		if seen[s] {
			out = append(out, s)
		}
	}
	out = append(out, unknown...)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Date is a calendar date in YYYY-MM-DD form.
type Date string

const dateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp (truncated to its date part).
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date(t.Format(dateLayout)), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date(t.Format(dateLayout)), true
	}
	return Date(s), false
}

func DateOf(t time.Time) Date { return Date(t.Format(dateLayout)) }

func (d Date) Time() (time.Time, bool) {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Plant is a single garden-inventory record.
type Plant struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	ScientificName    string       `json:"scientificName" yaml:"scientificName"`
	Type              PlantType    `json:"type" yaml:"type"`
	Description       string       `json:"description" yaml:"description"`
	ImageURL          string       `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Position          LatLng       `json:"position" yaml:"position"`
	PlantedDate       Date         `json:"plantedDate" yaml:"plantedDate"`
	WateringFrequency int          `json:"wateringFrequency" yaml:"wateringFrequency"` // days
	Sunlight          Sunlight     `json:"sunlight" yaml:"sunlight"`
	SoilType          SoilType     `json:"soilType" yaml:"soilType"`
	Height            int          `json:"height" yaml:"height"` // cm
	Spread            int          `json:"spread" yaml:"spread"` // cm
	SeasonalInfo      SeasonalInfo `json:"seasonalInfo" yaml:"seasonalInfo"`
	Notes             string       `json:"notes" yaml:"notes"`
}

// Clone returns a deep copy; the season slices are not shared.
func (p Plant) Clone() Plant {
	out := p
	out.SeasonalInfo = SeasonalInfo{
		Blooming: cloneSeasons(p.SeasonalInfo.Blooming),
		Harvest:  cloneSeasons(p.SeasonalInfo.Harvest),
		Dormant:  cloneSeasons(p.SeasonalInfo.Dormant),
	}
	return out
}

func cloneSeasons(in []Season) []Season {
	if in == nil {
		return nil
	}
	return append([]Season(nil), in...)
}

// NewDraft returns a blank plant at pos with the new-plant form defaults.
func NewDraft(id string, pos LatLng, today time.Time) Plant {
	return Plant{
		ID:                id,
		Type:              PlantTypeOther,
		Position:          pos,
		PlantedDate:       DateOf(today),
		WateringFrequency: 7,
		Sunlight:          SunlightFull,
		SoilType:          SoilLoamy,
	}
}

// Normalize trims text fields, lowercases enum values, fills empty enums with the form defaults
// and normalizes the season sets.
func Normalize(p Plant) Plant {
	p = p.Clone()
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.ScientificName = strings.TrimSpace(p.ScientificName)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Type = PlantType(strings.ToLower(strings.TrimSpace(string(p.Type))))
	if p.Type == "" {
		p.Type = PlantTypeOther
	}
	p.Sunlight = Sunlight(strings.ToLower(strings.TrimSpace(string(p.Sunlight))))
	if p.Sunlight == "" {
		p.Sunlight = SunlightFull
	}
	p.SoilType = SoilType(strings.ToLower(strings.TrimSpace(string(p.SoilType))))
	if p.SoilType == "" {
		p.SoilType = SoilLoamy
	}
	if d, ok := ParseDate(string(p.PlantedDate)); ok {
		p.PlantedDate = d
	}
	p.SeasonalInfo = p.SeasonalInfo.Normalize()
	return p
}

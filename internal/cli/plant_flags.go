package cli

import (
	"gardenmap/internal/model"

	"github.com/spf13/cobra"
)

// plantFlags are the editable plant fields. apply only touches flags the user set.
type plantFlags struct {
	name, scientificName, typ, description, imageURL string
	lat, lng                                         float64
	plantedDate                                      string
	watering, height, spread                         int
	sunlight, soil, notes                            string
	blooming, harvest, dormant                       []string
}

func (f *plantFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Common name")
	fs.StringVar(&f.scientificName, "scientific-name", "", "Scientific name")
	fs.StringVar(&f.typ, "type", "", "Plant type ("+joinTypes()+")")
	fs.StringVar(&f.description, "description", "", "Description (markdown)")
	fs.StringVar(&f.imageURL, "image-url", "", "Image URL")
	fs.Float64Var(&f.lat, "lat", 0, "Latitude")
	fs.Float64Var(&f.lng, "lng", 0, "Longitude")
	fs.StringVar(&f.plantedDate, "planted", "", "Planted date (YYYY-MM-DD)")
	fs.IntVar(&f.watering, "watering", 0, "Watering frequency in days")
	fs.StringVar(&f.sunlight, "sunlight", "", "full-sun|partial-shade|full-shade")
	fs.StringVar(&f.soil, "soil", "", "clay|sandy|loamy|peaty|chalky|silty")
	fs.IntVar(&f.height, "height", 0, "Height in cm")
	fs.IntVar(&f.spread, "spread", 0, "Spread in cm")
	fs.StringSliceVar(&f.blooming, "blooming", nil, "Blooming seasons (comma separated)")
	fs.StringSliceVar(&f.harvest, "harvest", nil, "Harvest seasons (comma separated)")
	fs.StringSliceVar(&f.dormant, "dormant", nil, "Dormant seasons (comma separated)")
	fs.StringVar(&f.notes, "notes", "", "Notes")
}

func (f *plantFlags) apply(cmd *cobra.Command, p model.Plant) model.Plant {
	p = p.Clone()
	set := cmd.Flags().Changed
	if set("name") {
		p.Name = f.name
	}
	if set("scientific-name") {
		p.ScientificName = f.scientificName
	}
	if set("type") {
		p.Type = model.PlantType(f.typ)
	}
	if set("description") {
		p.Description = f.description
	}
	if set("image-url") {
		p.ImageURL = f.imageURL
	}
	if set("lat") {
		p.Position.Lat = f.lat
	}
	if set("lng") {
		p.Position.Lng = f.lng
	}
	if set("planted") {
		p.PlantedDate = model.Date(f.plantedDate)
	}
	if set("watering") {
		p.WateringFrequency = f.watering
	}
	if set("sunlight") {
		p.Sunlight = model.Sunlight(f.sunlight)
	}
	if set("soil") {
		p.SoilType = model.SoilType(f.soil)
	}
	if set("height") {
		p.Height = f.height
	}
	if set("spread") {
		p.Spread = f.spread
	}
	if set("blooming") {
		p.SeasonalInfo.Blooming = seasons(f.blooming)
	}
	if set("harvest") {
		p.SeasonalInfo.Harvest = seasons(f.harvest)
	}
	if set("dormant") {
		p.SeasonalInfo.Dormant = seasons(f.dormant)
	}
	if set("notes") {
		p.Notes = f.notes
	}
	return p
}

func seasons(in []string) []model.Season {
	out := make([]model.Season, 0, len(in))
	for _, s := range in {
		out = append(out, model.Season(s))
	}
	return out
}

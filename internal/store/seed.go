package store

import (
	"context"
	_ "embed"
	"fmt"

	"gardenmap/internal/model"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed seed/plants.yaml
var seedYAML []byte

type seedFile struct {
	Plants []model.Plant `yaml:"plants"`
}

// SeedPlants returns the bundled sample garden, normalized and validated.
func SeedPlants() ([]model.Plant, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	out := make([]model.Plant, 0, len(f.Plants))
	for _, p := range f.Plants {
		p = model.Normalize(p)
		if err := model.Validate(p); err != nil {
			return nil, fmt.Errorf("seed plant %s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// SeedIfEmpty inserts the bundled sample garden when st holds no plants. It returns the number
// of plants inserted.
func SeedIfEmpty(ctx context.Context, st PlantStore, log logrus.FieldLogger) (int, error) {
	existing, err := st.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	return Seed(ctx, st, log)
}

// Seed inserts every bundled plant that is not already present.
func Seed(ctx context.Context, st PlantStore, log logrus.FieldLogger) (int, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	plants, err := SeedPlants()
	if err != nil {
		return 0, err
	}
	existing, err := st.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	have := map[string]bool{}
	for _, p := range existing {
		have[p.ID] = true
	}
	n := 0
	for _, p := range plants {
		if have[p.ID] {
			continue
		}
		if err := st.Insert(ctx, p); err != nil {
			return n, fmt.Errorf("seed plant %s: %w", p.ID, err)
		}
		n++
	}
	log.WithField("count", n).Info("seeded plant store")
	return n, nil
}

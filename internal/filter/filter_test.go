package filter

import (
	"math/rand"
	"strings"
	"testing"

	"gardenmap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []model.Plant {
	return []model.Plant{
		{ID: "1", Name: "Apple Tree", ScientificName: "Malus domestica", Type: model.PlantTypeFruit, Height: 450, Sunlight: model.SunlightFull},
		{ID: "2", Name: "English Oak", ScientificName: "Quercus robur", Type: model.PlantTypeTree, Height: 1500, Sunlight: model.SunlightFull},
		{ID: "3", Name: "Lavender", ScientificName: "Lavandula angustifolia", Type: model.PlantTypeHerb, Height: 60, Sunlight: model.SunlightFull,
			SeasonalInfo: model.SeasonalInfo{Blooming: []model.Season{model.SeasonSummer}}},
		{ID: "4", Name: "Crab Apple", ScientificName: "Malus sylvestris", Type: model.PlantTypeTree, Height: 600, Sunlight: model.SunlightPartialShade},
	}
}

func ids(plants []model.Plant) []string {
	out := []string{}
	for _, p := range plants {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		search string
		typ    string
		want   []string
	}{
		{"everything", "", AllTypes, []string{"1", "2", "3", "4"}},
		{"empty type means all", "", "", []string{"1", "2", "3", "4"}},
		{"name substring case-insensitive", "APPLE", AllTypes, []string{"1", "4"}},
		{"scientific name", "malus", AllTypes, []string{"1", "4"}},
		{"type only", "", "tree", []string{"2", "4"}},
		{"search and type", "apple", "tree", []string{"4"}},
		{"type case-insensitive", "", " Tree ", []string{"2", "4"}},
		{"all case-insensitive", "", "ALL", []string{"1", "2", "3", "4"}},
		{"no matches", "cactus", AllTypes, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Filter(sample(), tc.search, tc.typ)))
		})
	}
}

// TestFilter_MatchesSetDefinition compares Filter against the set definition on random inputs.
func TestFilter_MatchesSetDefinition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	names := []string{"Oak", "Oakleaf Hydrangea", "Basil", "Sweet Basil", "Tomato", "Rose", "rosemary", ""}
	types := model.PlantTypes()
	terms := []string{"", "o", "oak", "BAS", "rose", "mary", "zzz", " "}

	for iter := 0; iter < 200; iter++ {
		var catalog []model.Plant
		n := rng.Intn(12)
		for i := 0; i < n; i++ {
			catalog = append(catalog, model.Plant{
				ID:             string(rune('a' + i)),
				Name:           names[rng.Intn(len(names))],
				ScientificName: names[rng.Intn(len(names))],
				Type:           types[rng.Intn(len(types))],
			})
		}
		s := terms[rng.Intn(len(terms))]
		typ := AllTypes
		if rng.Intn(2) == 0 {
			typ = string(types[rng.Intn(len(types))])
		}

		want := []model.Plant{}
		for _, p := range catalog {
			typeOK := typ == AllTypes || string(p.Type) == typ
			ls := strings.ToLower(s)
			searchOK := strings.Contains(strings.ToLower(p.Name), ls) || strings.Contains(strings.ToLower(p.ScientificName), ls)
			if typeOK && searchOK {
				want = append(want, p)
			}
		}
		require.Equal(t, want, Filter(catalog, s, typ), "search=%q type=%q", s, typ)
	}
}

func TestQueryApply_WhereExpression(t *testing.T) {
	res, err := Query{Type: AllTypes, Where: `height > 500 && sunlight == "full-sun"`}.Apply(sample())
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(res.Plants))
	assert.Equal(t, 4, res.Total)

	res, err = Query{Where: `"summer" in blooming`}.Apply(sample())
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(res.Plants))
}

func TestQueryApply_BadExpression(t *testing.T) {
	_, err := Query{Where: `height >`}.Apply(sample())
	assert.ErrorContains(t, err, "filter expression")

	_, err = Query{Where: `name`}.Apply(sample())
	assert.Error(t, err, "non-boolean expressions are rejected at compile time")
}

func TestResult_Placeholder(t *testing.T) {
	res, err := Query{Search: "nothing like this"}.Apply(sample())
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, NoMatches, res.Placeholder())

	res, err = Query{}.Apply(sample())
	require.NoError(t, err)
	assert.Equal(t, "", res.Placeholder())
	assert.Equal(t, 4, res.Count())
}

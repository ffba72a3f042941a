// Package filter derives the list-panel view of the catalog from a search term, a type and an
// optional expression.
package filter

import (
	"fmt"
	"strings"

	"gardenmap/internal/model"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// AllTypes is the type selector that matches every plant.
const AllTypes = "all"

// NoMatches is shown in place of an empty result list.
const NoMatches = "No plants found matching your criteria."

type Query struct {
	Search string `json:"search"`
	Type   string `json:"type"`
	// Where is an optional boolean expression evaluated per plant, e.g.
	// `height > 100 && sunlight == "full-sun"`.
	Where string `json:"where,omitempty"`
}

// Matches reports whether p satisfies the search term (case-insensitive substring of name or
// scientific name) and the type selector ("" or AllTypes match every type, case-insensitive).
func Matches(p model.Plant, search, typ string) bool {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ != "" && typ != AllTypes && string(p.Type) != typ {
		return false
	}
	s := strings.ToLower(search)
	if s == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), s) || strings.Contains(strings.ToLower(p.ScientificName), s)
}

// Filter returns the plants matching search and typ, in catalog order.
func Filter(plants []model.Plant, search, typ string) []model.Plant {
	out := []model.Plant{}
	for _, p := range plants {
		if Matches(p, search, typ) {
			out = append(out, p)
		}
	}
	return out
}

// Result is a filtered view ready for a list panel.
type Result struct {
	Plants []model.Plant
	Total  int
}

func (r Result) Count() int  { return len(r.Plants) }
func (r Result) Empty() bool { return len(r.Plants) == 0 }

// Placeholder returns the text to render instead of the list, or "" when there are results.
func (r Result) Placeholder() string {
	if r.Empty() {
		return NoMatches
	}
	return ""
}

// Apply runs q over plants. Only a malformed Where expression produces an error.
func (q Query) Apply(plants []model.Plant) (Result, error) {
	pred, err := Compile(q.Where)
	if err != nil {
		return Result{}, err
	}
	out := []model.Plant{}
	for _, p := range plants {
		if !Matches(p, q.Search, q.Type) {
			continue
		}
		ok, err := pred(p)
		if err != nil {
			return Result{}, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return Result{Plants: out, Total: len(plants)}, nil
}

// Predicate evaluates a compiled Where expression against one plant.
type Predicate func(p model.Plant) (bool, error)

// Compile turns a Where expression into a Predicate. An empty expression matches everything.
func Compile(where string) (Predicate, error) {
	where = strings.TrimSpace(where)
	if where == "" {
		return func(model.Plant) (bool, error) { return true, nil }, nil
	}
	program, err := expr.Compile(where, expr.Env(env(model.Plant{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("filter expression: %w", err)
	}
	return func(p model.Plant) (bool, error) { return run(program, p) }, nil
}

func run(program *vm.Program, p model.Plant) (bool, error) {
	out, err := expr.Run(program, env(p))
	if err != nil {
		return false, fmt.Errorf("filter expression on %s: %w", p.ID, err)
	}
	b, _ := out.(bool)
	return b, nil
}

// env exposes a plant to expressions under its wire field names.
func env(p model.Plant) map[string]any {
	return map[string]any{
		"id":                p.ID,
		"name":              p.Name,
		"scientificName":    p.ScientificName,
		"type":              string(p.Type),
		"description":       p.Description,
		"notes":             p.Notes,
		"lat":               p.Position.Lat,
		"lng":               p.Position.Lng,
		"plantedDate":       string(p.PlantedDate),
		"wateringFrequency": p.WateringFrequency,
		"sunlight":          string(p.Sunlight),
		"soilType":          string(p.SoilType),
		"height":            p.Height,
		"spread":            p.Spread,
		"blooming":          seasonStrings(p.SeasonalInfo.Blooming),
		"harvest":           seasonStrings(p.SeasonalInfo.Harvest),
		"dormant":           seasonStrings(p.SeasonalInfo.Dormant),
	}
}

func seasonStrings(in []model.Season) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

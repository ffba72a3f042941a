package tui

import (
	"errors"
	"strconv"
	"strings"

	"gardenmap/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formField struct {
	key   string
	label string
	input textinput.Model
}

// plantForm edits every plant field as text. Seasons are comma separated.
type plantForm struct {
	base     model.Plant
	creating bool
	plantID  string

	fields []formField
	focus  int
	err    error
}

func newPlantForm(draft model.Plant, creating bool) *plantForm {
	f := &plantForm{base: draft.Clone(), creating: creating, plantID: draft.ID}
	if creating {
		f.plantID = ""
	}
	add := func(key, label, value, placeholder string) {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.CharLimit = 500
		in.SetValue(value)
		f.fields = append(f.fields, formField{key: key, label: label, input: in})
	}
	add("name", "Name", draft.Name, "required")
	add("scientificName", "Scientific name", draft.ScientificName, "")
	add("type", "Type", string(draft.Type), joinValues(model.PlantTypes()))
	add("description", "Description", draft.Description, "markdown")
	add("imageUrl", "Image URL", draft.ImageURL, "https://")
	add("lat", "Latitude", formatCoord(draft.Position.Lat), "")
	add("lng", "Longitude", formatCoord(draft.Position.Lng), "")
	add("plantedDate", "Planted", string(draft.PlantedDate), "YYYY-MM-DD")
	add("wateringFrequency", "Water every (days)", strconv.Itoa(draft.WateringFrequency), "")
	add("sunlight", "Sunlight", string(draft.Sunlight), joinValues(model.SunlightValues()))
	add("soilType", "Soil", string(draft.SoilType), joinValues(model.SoilTypes()))
	add("height", "Height (cm)", strconv.Itoa(draft.Height), "")
	add("spread", "Spread (cm)", strconv.Itoa(draft.Spread), "")
	add("bloomingSeason", "Blooming", joinValues(draft.SeasonalInfo.Blooming), "spring, summer")
	add("harvestSeason", "Harvest", joinValues(draft.SeasonalInfo.Harvest), "")
	add("dormantSeason", "Dormant", joinValues(draft.SeasonalInfo.Dormant), "")
	add("notes", "Notes", draft.Notes, "")
	f.fields[0].input.Focus()
	return f
}

func (f *plantForm) title() string {
	if f.creating {
		return "New plant"
	}
	return "Edit " + f.base.Name
}

func (f *plantForm) move(delta int) {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *plantForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *plantForm) value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return strings.TrimSpace(fld.input.Value())
		}
	}
	return ""
}

func (f *plantForm) set(key, v string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(v)
			return
		}
	}
}

// plant reads the inputs back into a record. Numbers that do not parse are validation errors.
func (f *plantForm) plant() (model.Plant, error) {
	p := f.base.Clone()
	p.Name = f.value("name")
	p.ScientificName = f.value("scientificName")
	p.Type = model.PlantType(f.value("type"))
	p.Description = f.value("description")
	p.ImageURL = f.value("imageUrl")
	p.PlantedDate = model.Date(f.value("plantedDate"))
	p.Sunlight = model.Sunlight(f.value("sunlight"))
	p.SoilType = model.SoilType(f.value("soilType"))
	p.Notes = f.value("notes")
	p.SeasonalInfo = model.SeasonalInfo{
		Blooming: splitSeasons(f.value("bloomingSeason")),
		Harvest:  splitSeasons(f.value("harvestSeason")),
		Dormant:  splitSeasons(f.value("dormantSeason")),
	}

	var err error
	if p.Position.Lat, err = parseFloat("lat", f.value("lat")); err != nil {
		return p, err
	}
	if p.Position.Lng, err = parseFloat("lng", f.value("lng")); err != nil {
		return p, err
	}
	for _, n := range []struct {
		key string
		dst *int
	}{
		{"wateringFrequency", &p.WateringFrequency},
		{"height", &p.Height},
		{"spread", &p.Spread},
	} {
		if *n.dst, err = parseInt(n.key, f.value(n.key)); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (f *plantForm) errField() string {
	var ve model.ValidationError
	if errors.As(f.err, &ve) {
		return ve.Field
	}
	return ""
}

func (f *plantForm) view(width int) string {
	labelW := 20
	inputW := width - labelW - 2
	if inputW < 8 {
		inputW = 8
	}
	label := styleMuted().Width(labelW)
	active := lipgloss.NewStyle().Width(labelW).Bold(true).Foreground(colorAccent)
	bad := f.errField()

	lines := []string{styleBadge().Render(f.title()), ""}
	for i, fld := range f.fields {
		l := label
		if i == f.focus {
			l = active
		}
		in := fld.input
		in.Width = inputW
		row := l.Render(fld.label) + " " + in.View()
		if fld.key == bad || (bad == "position" && (fld.key == "lat" || fld.key == "lng")) {
			row += " " + styleError().Render("!")
		}
		lines = append(lines, row)
	}
	if f.err != nil {
		lines = append(lines, "", styleError().Render(f.err.Error()))
	}
	lines = append(lines, "", styleMuted().Render("tab/shift+tab: field   ctrl+s: save   esc: cancel"))
	return strings.Join(lines, "\n")
}

func parseFloat(field, s string) (float64, error) {
	if s == "" {
		return 0, model.ValidationError{Field: field, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, model.ValidationError{Field: field, Reason: "must be a number"}
	}
	return v, nil
}

func parseInt(field, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, model.ValidationError{Field: field, Reason: "must be a whole number"}
	}
	return v, nil
}

func splitSeasons(s string) []model.Season {
	var out []model.Season
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, model.Season(part))
		}
	}
	return out
}

func joinValues[T ~string](vs []T) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gardenmap/internal/filter"
	"gardenmap/internal/mapview"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"
)

type pageVM struct {
	Title    string
	Viewport mapview.Viewport
	Signals  string
	Panel    panelVM
}

type panelVM struct {
	Mode       string
	EditMode   bool
	Hint       string
	FilterOpen bool
	List       listVM
	Detail     *detailVM
	Form       *formVM
	Error      string
}

type listVM struct {
	Search      string
	Type        string
	Where       string
	WhereError  string
	Types       []optionVM
	Count       int
	Placeholder string
	Rows        []rowVM
}

type rowVM struct {
	ID             string
	Name           string
	ScientificName string
	TypeLabel      string
	Color          string
	ImageURL       string
	Selected       bool
}

type optionVM struct {
	Value    string
	Label    string
	Selected bool
}

type detailVM struct {
	ID             string
	Name           string
	ScientificName string
	TypeLabel      string
	Color          string
	ImageURL       string
	Description    string
	Notes          string
	Position       string
	PlantedDate    string
	Watering       string
	Sunlight       string
	SoilType       string
	Height         int
	Spread         int
	Seasons        []seasonRowVM
}

type seasonRowVM struct {
	Label   string
	Seasons []string
}

type formVM struct {
	Creating          bool
	Name              string
	ScientificName    string
	Description       string
	ImageURL          string
	Lat               string
	Lng               string
	PlantedDate       string
	WateringFrequency string
	Height            string
	Spread            string
	Notes             string
	Types             []optionVM
	Sunlight          []optionVM
	SoilTypes         []optionVM
	SeasonSets        []seasonSetVM
	Error             string
	ErrorField        string
}

type seasonSetVM struct {
	Field   string
	Label   string
	Options []optionVM
}

// panelVM describes the side panel. form overrides the stored draft (a rejected submission is
// re-rendered with what the user typed); formErr is shown inline on the form.
func (s *Server) panelVM(form *model.Plant, formErr error) panelVM {
	st := s.session.Selection.State()
	vm := panelVM{
		Mode:       st.Mode.String(),
		EditMode:   s.session.Selection.EditMode(),
		Hint:       s.session.Map.Hint(),
		FilterOpen: s.session.FilterPanelOpen(),
		List:       s.listVM(st),
	}

	switch st.Mode {
	case selection.Viewing:
		if st.Plant != nil {
			d := newDetailVM(*st.Plant)
			vm.Detail = &d
		}
	case selection.Editing, selection.Placing:
		p, ok := s.session.Draft()
		if form != nil {
			p, ok = *form, true
		}
		if ok {
			f := newFormVM(p, st.Creating(), formErr)
			vm.Form = &f
		}
	}
	if formErr != nil && vm.Form == nil {
		vm.Error = formErr.Error()
	}
	return vm
}

func (s *Server) listVM(st selection.State) listVM {
	q := s.session.Query()
	res, whereErr := s.visible()
	vm := listVM{
		Search:      q.Search,
		Type:        q.Type,
		Where:       q.Where,
		WhereError:  whereErr,
		Count:       res.Count(),
		Placeholder: res.Placeholder(),
	}
	vm.Types = append(vm.Types, optionVM{Value: filter.AllTypes, Label: "All types", Selected: q.Type == filter.AllTypes})
	for _, t := range model.PlantTypes() {
		vm.Types = append(vm.Types, optionVM{Value: string(t), Label: model.Label(t), Selected: q.Type == string(t)})
	}
	for _, p := range res.Plants {
		vm.Rows = append(vm.Rows, rowVM{
			ID:             p.ID,
			Name:           p.Name,
			ScientificName: p.ScientificName,
			TypeLabel:      model.Label(p.Type),
			Color:          mapview.MarkerColor(p.Type),
			ImageURL:       p.ImageURL,
			Selected:       st.PlantID == p.ID,
		})
	}
	return vm
}

func newDetailVM(p model.Plant) detailVM {
	d := detailVM{
		ID:             p.ID,
		Name:           p.Name,
		ScientificName: p.ScientificName,
		TypeLabel:      model.Label(p.Type),
		Color:          mapview.MarkerColor(p.Type),
		ImageURL:       p.ImageURL,
		Description:    p.Description,
		Notes:          p.Notes,
		Position:       fmt.Sprintf("%.6f, %.6f", p.Position.Lat, p.Position.Lng),
		PlantedDate:    string(p.PlantedDate),
		Watering:       wateringLabel(p.WateringFrequency),
		Sunlight:       model.Label(p.Sunlight),
		SoilType:       model.Label(p.SoilType),
		Height:         p.Height,
		Spread:         p.Spread,
	}
	if t, ok := p.PlantedDate.Time(); ok {
		d.PlantedDate = t.Format("January 2, 2006")
	}
	for _, set := range []struct {
		label   string
		seasons []model.Season
	}{
		{"Blooming", p.SeasonalInfo.Blooming},
		{"Harvest", p.SeasonalInfo.Harvest},
		{"Dormant", p.SeasonalInfo.Dormant},
	} {
		if len(set.seasons) == 0 {
			continue
		}
		row := seasonRowVM{Label: set.label}
		for _, season := range set.seasons {
			row.Seasons = append(row.Seasons, model.Label(season))
		}
		d.Seasons = append(d.Seasons, row)
	}
	return d
}

func wateringLabel(days int) string {
	if days == 1 {
		return "Every day"
	}
	return fmt.Sprintf("Every %d days", days)
}

func newFormVM(p model.Plant, creating bool, err error) formVM {
	f := formVM{
		Creating:          creating,
		Name:              p.Name,
		ScientificName:    p.ScientificName,
		Description:       p.Description,
		ImageURL:          p.ImageURL,
		Lat:               strconv.FormatFloat(p.Position.Lat, 'f', -1, 64),
		Lng:               strconv.FormatFloat(p.Position.Lng, 'f', -1, 64),
		PlantedDate:       string(p.PlantedDate),
		WateringFrequency: strconv.Itoa(p.WateringFrequency),
		Height:            strconv.Itoa(p.Height),
		Spread:            strconv.Itoa(p.Spread),
		Notes:             p.Notes,
	}
	for _, t := range model.PlantTypes() {
		f.Types = append(f.Types, optionVM{Value: string(t), Label: model.Label(t), Selected: p.Type == t})
	}
	for _, v := range model.SunlightValues() {
		f.Sunlight = append(f.Sunlight, optionVM{Value: string(v), Label: model.Label(v), Selected: p.Sunlight == v})
	}
	for _, v := range model.SoilTypes() {
		f.SoilTypes = append(f.SoilTypes, optionVM{Value: string(v), Label: model.Label(v), Selected: p.SoilType == v})
	}
	f.SeasonSets = []seasonSetVM{
		seasonSet("bloomingSeason", "Blooming", p.SeasonalInfo.Blooming),
		seasonSet("harvestSeason", "Harvest", p.SeasonalInfo.Harvest),
		seasonSet("dormantSeason", "Dormant", p.SeasonalInfo.Dormant),
	}
	if err != nil {
		f.Error = err.Error()
		var ve model.ValidationError
		if errors.As(err, &ve) {
			f.ErrorField = ve.Field
		}
	}
	return f
}

func seasonSet(field, label string, chosen []model.Season) seasonSetVM {
	set := seasonSetVM{Field: field, Label: label}
	for _, season := range model.Seasons() {
		checked := false
		for _, c := range chosen {
			if c == season {
				checked = true
				break
			}
		}
		set.Options = append(set.Options, optionVM{Value: string(season), Label: model.Label(season), Selected: checked})
	}
	return set
}

// signals is the datastar signal set the map script renders from.
func (s *Server) signals() map[string]any {
	return map[string]any{
		"markers":  s.session.Map.Markers(),
		"editMode": s.session.Selection.EditMode(),
		"hint":     s.session.Map.Hint(),
	}
}

func (s *Server) signalsJSON() (string, error) {
	sig := s.signals()
	q := s.session.Query()
	sig["search"] = q.Search
	sig["type"] = q.Type
	b, err := json.Marshal(sig)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gardenmap/internal/filter"
	"gardenmap/internal/garden"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"

	"github.com/starfederation/datastar-go/datastar"
)

type latLngReq struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func readLatLng(r *http.Request) (model.LatLng, error) {
	var req latLngReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return model.LatLng{}, model.ValidationError{Field: "position", Reason: "invalid json"}
	}
	if req.Lat == nil || req.Lng == nil {
		return model.LatLng{}, model.ValidationError{Field: "position", Reason: "missing lat or lng"}
	}
	return model.LatLng{Lat: *req.Lat, Lng: *req.Lng}, nil
}

type gestureResp struct {
	Mode    string `json:"mode"`
	PlantID string `json:"plantId,omitempty"`
}

func writeGesture(w http.ResponseWriter, st selection.State) {
	writeJSON(w, http.StatusOK, gestureResp{Mode: st.Mode.String(), PlantID: st.PlantID})
}

// changed wakes every open event stream after a UI-state change.
func (s *Server) changed() { s.hub.Broadcast() }

func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	pos, err := readLatLng(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	st, err := s.session.Map.MapClick(pos)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	s.changed()
	writeGesture(w, st)
}

func (s *Server) handleMarkerClick(w http.ResponseWriter, r *http.Request) {
	st, err := s.session.Map.MarkerClick(r.PathValue("id"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	s.changed()
	if isDatastarRequest(r) {
		s.respondPanel(w, r, s.panelVM(nil, nil))
		return
	}
	writeGesture(w, st)
}

func (s *Server) handleMarkerDrag(w http.ResponseWriter, r *http.Request) {
	pos, err := readLatLng(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	st, err := s.session.Map.DragEnd(r.Context(), r.PathValue("id"), pos)
	if err != nil {
		// The browser already moved the marker; push the stored position back.
		s.changed()
		writeAPIError(w, err)
		return
	}
	s.changed()
	writeGesture(w, st)
}

func (s *Server) handleSelectionNew(w http.ResponseWriter, r *http.Request) {
	s.session.NewPlant()
	s.changed()
	s.respondPanel(w, r, s.panelVM(nil, nil))
}

func (s *Server) handleSelectionEdit(w http.ResponseWriter, r *http.Request) {
	_, err := s.session.EditSelected()
	s.changed()
	if err != nil && !isDatastarRequest(r) {
		writeAPIError(w, err)
		return
	}
	s.respondPanel(w, r, s.panelVM(nil, err))
}

func (s *Server) handleSelectionCancel(w http.ResponseWriter, r *http.Request) {
	s.session.Selection.Cancel()
	s.changed()
	s.respondPanel(w, r, s.panelVM(nil, nil))
}

func (s *Server) handleSelectionClose(w http.ResponseWriter, r *http.Request) {
	s.session.Selection.Close()
	s.changed()
	s.respondPanel(w, r, s.panelVM(nil, nil))
}

func (s *Server) handleEditMode(w http.ResponseWriter, r *http.Request) {
	on := s.session.Selection.ToggleEditMode()
	s.log.WithField("editMode", on).Debug("edit mode toggled")
	s.changed()
	s.respondPanel(w, r, s.panelVM(nil, nil))
}

func (s *Server) handleFilterPanel(w http.ResponseWriter, r *http.Request) {
	s.session.ToggleFilterPanel()
	s.changed()
	s.respondPanel(w, r, s.panelVM(nil, nil))
}

func (s *Server) handlePanelList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.session.SetQuery(filter.Query{
		Search: q.Get("search"),
		Type:   strings.TrimSpace(q.Get("type")),
		Where:  q.Get("where"),
	})
	vm := s.listVM(s.session.Selection.State())
	html, err := s.renderTemplate("plant_list", vm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !isDatastarRequest(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
		return
	}
	sse := datastar.NewSSE(w, r)
	_ = sse.PatchElements(html, datastar.WithSelector("#plant-list"), datastar.WithMode(datastar.ElementPatchModeOuter))
}

func (s *Server) handlePlantSave(w http.ResponseWriter, r *http.Request) {
	p, err := parsePlantForm(r)
	if err == nil {
		_, err = s.session.Save(r.Context(), p)
	}
	if err != nil {
		if !isDatastarRequest(r) {
			writeAPIError(w, err)
			return
		}
		if errors.Is(err, garden.ErrNoForm) {
			s.respondPanel(w, r, s.panelVM(nil, err))
			return
		}
		s.respondPanel(w, r, s.panelVM(&p, err))
		return
	}
	s.changed()
	s.respondPanel(w, r, s.panelVM(nil, nil))
}

func (s *Server) handlePlantDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	confirmed := r.URL.Query().Get("confirm") == "yes"
	deleted, err := s.session.Delete(r.Context(), id, garden.ConfirmFunc(func(model.Plant) bool { return confirmed }))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusConflict, apiErrorBody("deletion needs confirmation (confirm=yes)", "conflict"))
		return
	}
	s.changed()
	s.respondPanel(w, r, s.panelVM(nil, nil))
}

// parsePlantForm reads the plant form. Both urlencoded and multipart bodies are accepted.
// Malformed numbers come back as a ValidationError alongside what could be read.
func parsePlantForm(r *http.Request) (model.Plant, error) {
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return model.Plant{}, model.ValidationError{Field: "form", Reason: err.Error()}
	}
	f := r.PostForm
	get := func(k string) string { return strings.TrimSpace(f.Get(k)) }

	p := model.Plant{
		Name:           get("name"),
		ScientificName: get("scientificName"),
		Type:           model.PlantType(get("type")),
		Description:    f.Get("description"),
		ImageURL:       get("imageUrl"),
		PlantedDate:    model.Date(get("plantedDate")),
		Sunlight:       model.Sunlight(get("sunlight")),
		SoilType:       model.SoilType(get("soilType")),
		Notes:          f.Get("notes"),
		SeasonalInfo: model.SeasonalInfo{
			Blooming: seasonsOf(f["bloomingSeason"]),
			Harvest:  seasonsOf(f["harvestSeason"]),
			Dormant:  seasonsOf(f["dormantSeason"]),
		},
	}

	var firstErr error
	num := func(field string, dst *int) {
		v := get(field)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil && firstErr == nil {
			firstErr = model.ValidationError{Field: field, Reason: "must be a whole number"}
		}
		*dst = n
	}
	coord := func(field string, dst *float64) {
		v, err := strconv.ParseFloat(get(field), 64)
		if err != nil && firstErr == nil {
			firstErr = model.ValidationError{Field: "position", Reason: field + " must be a number"}
		}
		*dst = v
	}
	coord("lat", &p.Position.Lat)
	coord("lng", &p.Position.Lng)
	num("wateringFrequency", &p.WateringFrequency)
	num("height", &p.Height)
	num("spread", &p.Spread)
	return p, firstErr
}

func seasonsOf(vals []string) []model.Season {
	var out []model.Season
	for _, v := range vals {
		out = append(out, model.Season(v))
	}
	return out
}

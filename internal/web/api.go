package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"gardenmap/internal/catalog"
	"gardenmap/internal/garden"
	"gardenmap/internal/mapview"
	"gardenmap/internal/model"
	"gardenmap/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func apiErrorBody(msg, kind string) store.APIError {
	return store.APIError{Message: msg, Kind: kind}
}

// writeAPIError maps the error taxonomy onto HTTP statuses and the store.APIError body that
// RemoteStore decodes.
func writeAPIError(w http.ResponseWriter, err error) {
	var (
		ve model.ValidationError
		nf model.NotFoundError
		se model.StoreError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, store.APIError{Message: err.Error(), Kind: store.APIErrorValidation, Field: ve.Field})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, store.APIError{Message: err.Error(), Kind: store.APIErrorNotFound, ID: nf.ID})
	case errors.Is(err, catalog.ErrBusy), errors.Is(err, mapview.ErrEditModeOff), errors.Is(err, garden.ErrNoForm):
		writeJSON(w, http.StatusConflict, apiErrorBody(err.Error(), store.APIErrorConflict))
	case errors.As(err, &se):
		writeJSON(w, http.StatusInternalServerError, apiErrorBody(err.Error(), store.APIErrorStore))
	default:
		writeJSON(w, http.StatusInternalServerError, apiErrorBody(err.Error(), store.APIErrorInternal))
	}
}

func readPlant(r *http.Request) (model.Plant, error) {
	var p model.Plant
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return model.Plant{}, model.ValidationError{Field: "body", Reason: "invalid json"}
	}
	return p, nil
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Catalog.Plants())
}

func (s *Server) handleAPICreate(w http.ResponseWriter, r *http.Request) {
	p, err := readPlant(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if p.ID == "" {
		p.ID = store.NewPlantID()
	}
	if _, err := s.session.Catalog.Create(r.Context(), p); err != nil {
		writeAPIError(w, err)
		return
	}
	saved, _ := s.session.Catalog.Find(p.ID)
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleAPIUpdate(w http.ResponseWriter, r *http.Request) {
	p, err := readPlant(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	p.ID = r.PathValue("id")
	if _, err := s.session.Catalog.Update(r.Context(), p); err != nil {
		writeAPIError(w, err)
		return
	}
	saved, _ := s.session.Catalog.Find(p.ID)
	s.session.Selection.Refresh(saved)
	writeJSON(w, http.StatusOK, saved)
}

// handleAPIDelete reports 404 for an absent id so remote clients see the same contract as a
// local store.
func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.session.Catalog.Find(id); !ok {
		writeAPIError(w, model.NotFoundError{Kind: "plant", ID: id})
		return
	}
	if _, err := s.session.Catalog.Remove(r.Context(), id); err != nil {
		writeAPIError(w, err)
		return
	}
	s.session.Selection.Deleted(id)
	w.WriteHeader(http.StatusNoContent)
}

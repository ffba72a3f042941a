package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"
)

// handleEvents keeps #panel and the map signals current. It pushes on every catalog change
// (including external edits picked up by a store watch) and every UI-state change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	uiCh, cancelUI := s.hub.Subscribe()
	defer cancelUI()
	catalogCh, cancelCatalog := s.session.Catalog.Subscribe()
	defer cancelCatalog()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	push := func() {
		html, err := s.renderTemplate("panel", s.panelVM(nil, nil))
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		if strings.TrimSpace(html) != "" {
			_ = sse.PatchElements(html, datastar.WithSelector("#panel"), datastar.WithMode(datastar.ElementPatchModeInner))
		}
		_ = sse.MarshalAndPatchSignals(s.signals())
	}
	push()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-uiCh:
			push()
		case <-catalogCh:
			s.session.Reconcile()
			push()
		}
	}
}

// respondPanel answers a datastar action with the re-rendered panel and map signals. Plain
// requests (scripts, tests without the datastar header) get 204.
func (s *Server) respondPanel(w http.ResponseWriter, r *http.Request, vm panelVM) {
	if !isDatastarRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	html, err := s.renderTemplate("panel", vm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sse := datastar.NewSSE(w, r)
	_ = sse.PatchElements(html, datastar.WithSelector("#panel"), datastar.WithMode(datastar.ElementPatchModeInner))
	_ = sse.MarshalAndPatchSignals(s.signals())
}

func isDatastarRequest(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("Datastar-Request")), "true")
}

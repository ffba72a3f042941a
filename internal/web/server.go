package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"gardenmap/internal/catalog"
	"gardenmap/internal/filter"
	"gardenmap/internal/garden"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr    string
	Session *garden.Session
	Logger  logrus.FieldLogger
}

type Server struct {
	cfg     ServerConfig
	session *garden.Session
	log     logrus.FieldLogger
	tmpl    *template.Template
	hub     *catalog.Hub
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Session == nil {
		return nil, errors.New("web: session is nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"markdown": renderMarkdownHTML,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:     cfg,
		session: cfg.Session,
		log:     cfg.Logger,
		tmpl:    tmpl,
		hub:     catalog.NewHub(),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /static/app.js", s.handleAppJS)
	mux.HandleFunc("GET /{$}", s.handleHome)

	mux.HandleFunc("POST /map/click", s.handleMapClick)
	mux.HandleFunc("POST /markers/{id}/click", s.handleMarkerClick)
	mux.HandleFunc("POST /markers/{id}/drag", s.handleMarkerDrag)

	mux.HandleFunc("POST /selection/new", s.handleSelectionNew)
	mux.HandleFunc("POST /selection/edit", s.handleSelectionEdit)
	mux.HandleFunc("POST /selection/cancel", s.handleSelectionCancel)
	mux.HandleFunc("POST /selection/close", s.handleSelectionClose)
	mux.HandleFunc("POST /edit-mode", s.handleEditMode)
	mux.HandleFunc("POST /filter-panel", s.handleFilterPanel)
	mux.HandleFunc("GET /panel/list", s.handlePanelList)

	mux.HandleFunc("POST /plants", s.handlePlantSave)
	mux.HandleFunc("DELETE /plants/{id}", s.handlePlantDelete)

	mux.HandleFunc("GET /api/plants", s.handleAPIList)
	mux.HandleFunc("POST /api/plants", s.handleAPICreate)
	mux.HandleFunc("PUT /api/plants/{id}", s.handleAPIUpdate)
	mux.HandleFunc("DELETE /api/plants/{id}", s.handleAPIDelete)
	return logRequests(s.log, mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleAppJS(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, "static/app.js", "application/javascript; charset=utf-8")
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, "static/app.css", "text/css; charset=utf-8")
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, name, contentType string) {
	b, err := assetsFS.ReadFile(name)
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// handleHealth answers 503 until the catalog has loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !s.session.Catalog.Loaded() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading\n"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	signals, err := s.signalsJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "page", pageVM{
		Title:    "Garden Map",
		Viewport: s.session.Map.Viewport(),
		Signals:  signals,
		Panel:    s.panelVM(nil, nil),
	})
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// visible is the list panel's result. A malformed where-expression is reported and ignored.
func (s *Server) visible() (filter.Result, string) {
	res, err := s.session.Visible()
	if err == nil {
		return res, ""
	}
	q := s.session.Query()
	q.Where = ""
	res, _ = q.Apply(s.session.Catalog.Plants())
	return res, err.Error()
}

// Package server exposes the dashboard, public cards and the JSON API over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"seulink/internal/editor"
	"seulink/internal/i18n"
	"seulink/internal/scraper"
	"seulink/internal/store"
	"seulink/internal/viewer"
)

//go:embed templates/*.html
var templateFS embed.FS

// Deps are the components the server routes requests to.
type Deps struct {
	Client  store.Client
	Editor  *editor.Service
	Drafts  *editor.Drafts
	Viewer  *viewer.Service
	Scraper scraper.Scraper
	// BaseURL prefixes share links. Empty means derive it from the request.
	BaseURL string
}

// Server is the HTTP surface of the application.
type Server struct {
	client  store.Client
	editor  *editor.Service
	drafts  *editor.Drafts
	viewer  *viewer.Service
	scraper scraper.Scraper
	baseURL string
	pages   *template.Template
	router  *mux.Router
	now     func() time.Time
	log     logrus.FieldLogger
}

// New parses the templates and registers every route.
func New(deps Deps, logger logrus.FieldLogger) (*Server, error) {
	pages, err := template.New("pages").Funcs(template.FuncMap{
		"t": i18n.T,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	sc := deps.Scraper
	if sc == nil {
		sc = scraper.Disabled{}
	}

	s := &Server{
		client:  deps.Client,
		editor:  deps.Editor,
		drafts:  deps.Drafts,
		viewer:  deps.Viewer,
		scraper: sc,
		baseURL: deps.BaseURL,
		pages:   pages,
		router:  mux.NewRouter(),
		now:     time.Now,
		log:     logger.WithField("component", "http"),
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.logRequests, s.language, s.session)

	r.HandleFunc("/", s.handleShell).Methods(http.MethodGet)
	r.HandleFunc("/view", s.handleView).Methods(http.MethodGet)
	r.HandleFunc("/auth", s.handleAuth).Methods(http.MethodPost)
	r.HandleFunc("/auth/signout", s.handleSignOut).Methods(http.MethodPost)
	r.HandleFunc("/dashboard", s.requireSession(s.handleDashboard)).Methods(http.MethodPost)

	r.HandleFunc("/u/{username}.vcf", s.handleVCard).Methods(http.MethodGet)
	r.HandleFunc("/u/{username}/qr.png", s.handleQRCode).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/me/profile", s.requireSession(s.handleGetMyProfile)).Methods(http.MethodGet)
	api.HandleFunc("/me/profile", s.requireSession(s.handlePutMyProfile)).Methods(http.MethodPut)
	api.HandleFunc("/u/{username}", s.handleGetPublicProfile).Methods(http.MethodGet)
	api.HandleFunc("/links/preview", s.requireSession(s.handleLinkPreview)).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// baseURLFor returns the configured base URL or one derived from r.
func (s *Server) baseURLFor(r *http.Request) string {
	if s.baseURL != "" {
		return s.baseURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

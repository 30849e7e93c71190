package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/aellingwood/anvil/internal/config"
	"github.com/aellingwood/anvil/internal/daydata"
	"github.com/aellingwood/anvil/internal/security"
	tmpl "github.com/aellingwood/anvil/internal/template"
	"github.com/aellingwood/anvil/internal/ui"
)

// ReloadPath is the WebSocket endpoint used for live reload.
const ReloadPath = "/__anvil/ws"

// ServeOptions contains the configurable settings for the preview server.
type ServeOptions struct {
	Port         int
	Bind         string
	LayoutDir    string
	NoLiveReload bool
}

// Server is the preview HTTP server. It renders calendar and pagination pages
// from query parameters and reloads connected browsers when day values change.
type Server struct {
	config  *config.Config
	options ServeOptions
	engine  *tmpl.Engine
	store   *daydata.Store
	hub     *Hub
	watcher *Watcher
	server  *http.Server
}

// NewServer creates a Server with the given configuration, day values store,
// and options.
func NewServer(cfg *config.Config, store *daydata.Store, opts ServeOptions) (*Server, error) {
	engine, err := tmpl.NewEngine(opts.LayoutDir, tmpl.Options{
		HighlightToday: cfg.Calendar.HighlightToday,
		PerPage:        cfg.Pagination.PerPage,
		LinkClasses:    cfg.Pagination.LinkClasses,
		DayValues:      store.Values,
	})
	if err != nil {
		return nil, fmt.Errorf("loading layouts: %w", err)
	}

	return &Server{
		config:  cfg,
		options: opts,
		engine:  engine,
		store:   store,
		hub:     NewHub(),
	}, nil
}

// Handler returns the HTTP handler serving all preview routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(ReloadPath, s.hub.HandleWS)
	mux.HandleFunc("/calendar", s.handleCalendar)
	mux.HandleFunc("/pagination", s.handlePagination)
	mux.HandleFunc("/", s.handleIndex)
	return logRequests(mux)
}

// Start starts the HTTP server, WebSocket hub, and file watcher. It blocks
// until the provided context is cancelled or the server is stopped.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()

	addr := net.JoinHostPort(s.options.Bind, strconv.Itoa(s.options.Port))
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watcher != nil {
		go func() {
			if err := s.watcher.Start(); err != nil {
				log.WithError(err).Error("watcher stopped")
			}
		}()
	}

	go func() {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	log.Infof("Serving at http://%s", addr)

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server, watcher, and hub.
func (s *Server) Stop() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.hub.Stop()
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// SetWatcher configures the file watcher for the server.
func (s *Server) SetWatcher(w *Watcher) {
	s.watcher = w
}

// NotifyReload sends a reload message to all connected WebSocket clients.
func (s *Server) NotifyReload() {
	s.hub.Broadcast([]byte("reload"))
}

// Reload re-reads day values and tells browsers to refresh.
func (s *Server) Reload() {
	if err := s.store.Reload(); err != nil {
		log.WithError(err).Error("reload failed")
		return
	}
	log.Info("Day values reloaded")
	s.NotifyReload()
}

// routeLayouts are rendered by their own handlers and never served by name.
var routeLayouts = map[string]bool{
	"index.html":      true,
	"calendar.html":   true,
	"pagination.html": true,
	"error.html":      true,
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		s.render(w, http.StatusOK, "index.html", &tmpl.PageContext{
			Title: "Preview",
			Path:  r.URL.Path,
		})
		return
	}

	// Other layouts from the layout directory are previewed by name, with
	// the current month as context.
	name := strings.TrimPrefix(r.URL.Path, "/")
	if path.Ext(name) != ".html" || strings.HasPrefix(name, "partials/") ||
		routeLayouts[name] || !s.engine.HasTemplate(name) {
		s.renderError(w, http.StatusNotFound, "page not found")
		return
	}

	now := time.Now()
	s.render(w, http.StatusOK, name, &tmpl.PageContext{
		Title:     name,
		Path:      r.URL.Path,
		Year:      now.Year(),
		Month:     now.Month(),
		PerPage:   s.config.Pagination.PerPage,
		Generated: now,
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cal := ui.ParseCalendar(q.Get("year"), q.Get("month"))

	highlight := s.config.Calendar.HighlightToday
	if v := q.Get("highlight"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			highlight = b
		}
	}

	cal.SetDayValues(s.store.Values(cal.Year(), cal.Month()))

	first := time.Date(cal.Year(), cal.Month(), 1, 0, 0, 0, 0, time.Local)
	s.render(w, http.StatusOK, "calendar.html", &tmpl.PageContext{
		Title:     fmt.Sprintf("%s %d", cal.Month(), cal.Year()),
		Path:      r.URL.Path,
		Year:      cal.Year(),
		Month:     cal.Month(),
		PrevMonth: monthURL(first.AddDate(0, -1, 0)),
		NextMonth: monthURL(first.AddDate(0, 1, 0)),
		Calendar:  safe(cal.Render(highlight)),
		Generated: time.Now(),
	})
}

func (s *Server) handlePagination(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p, err := ui.ParsePagination(q.Get("p"), q.Get("total"), r.URL.RequestURI())
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	perPage := s.config.Pagination.PerPage
	if n, ok := ui.IntLike(q.Get("perPage")); ok {
		perPage = n
	}
	p.SetItemsPerPage(perPage)

	classes := s.config.Pagination.LinkClasses
	if q.Has("classes") {
		classes = q.Get("classes")
	}
	p.SetLinkClasses(classes)

	total, _ := ui.IntLike(q.Get("total"))
	s.render(w, http.StatusOK, "pagination.html", &tmpl.PageContext{
		Title:      fmt.Sprintf("Page %d of %d", p.CurrentPage(), p.TotalPages()),
		Path:       r.URL.Path,
		Pagination: safe(p.Render()),
		Total:      total,
		Page:       p.CurrentPage(),
		PerPage:    p.ItemsPerPage(),
		Generated:  time.Now(),
	})
}

func (s *Server) renderError(w http.ResponseWriter, status int, msg string) {
	s.render(w, status, "error.html", &tmpl.PageContext{
		Title:   http.StatusText(status),
		Status:  status,
		Message: msg,
	})
}

// render executes a layout and writes it with the live reload script
// injected unless disabled. The script is authorized by a per-response nonce.
func (s *Server) render(w http.ResponseWriter, status int, name string, ctx *tmpl.PageContext) {
	data, err := s.engine.Execute(name, ctx)
	if err != nil {
		log.WithError(err).WithField("template", name).Error("render failed")
		http.Error(w, "500 internal server error", http.StatusInternalServerError)
		return
	}

	var nonce string
	if !s.options.NoLiveReload {
		nonce, err = security.NewNonce()
		if err != nil {
			log.WithError(err).Error("render failed")
			http.Error(w, "500 internal server error", http.StatusInternalServerError)
			return
		}
		data = InjectLiveReload(data, ReloadPath, nonce)
	}

	w.Header().Set(security.Header, security.PreviewPolicy(nonce).String())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// safe marks markup produced by the ui package as trusted.
func safe(s string) template.HTML {
	return template.HTML(s)
}

func monthURL(t time.Time) string {
	v := url.Values{}
	v.Set("year", strconv.Itoa(t.Year()))
	v.Set("month", strconv.Itoa(int(t.Month())))
	return "/calendar?" + v.Encode()
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == ReloadPath {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.RequestURI(),
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debug("request")
	})
}

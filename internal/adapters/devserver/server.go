// Package devserver serves the build output with live reload.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// EventsPath is the server-sent events endpoint.
	EventsPath = "/__sitepress/livereload"
	// ScriptPath serves the live-reload client.
	ScriptPath = "/__sitepress/livereload.js"
	// MetricsPath serves Prometheus metrics.
	MetricsPath = "/__sitepress/metrics"

	shutdownTimeout = 5 * time.Second
)

var _ ports.DevServer = (*Server)(nil)

// Server implements ports.DevServer.
type Server struct {
	root     string
	logger   ports.Logger
	listener net.Listener
	hub      *Hub
	server   *http.Server
	open     bool

	requests *prometheus.CounterVec

	openBrowser func(url string) error
}

// New binds the listener and prepares the handler. Nothing is served until
// Serve is called.
func New(opts ports.DevServerOptions, logger ports.Logger) (*Server, error) {
	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		root:     opts.Root,
		logger:   logger,
		listener: ln,
		hub:      NewHub(registry),
		open:     opts.Open,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitepress",
			Name:      "http_requests_total",
			Help:      "Static file requests, by status code",
		}, []string{"code"}),
		openBrowser: browser.OpenURL,
	}
	registry.MustRegister(s.requests)

	mux := http.NewServeMux()
	mux.Handle(EventsPath, s.hub)
	mux.HandleFunc(ScriptPath, serveScript)
	mux.Handle(MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.Handle("/", s.instrument(noCache(injectScript(http.FileServer(http.Dir(opts.Root))))))

	// SSE connections are long-lived, so there are no read or write timeouts.
	s.server = &http.Server{
		Handler:           cors.AllowAll().Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       300 * time.Second,
	}
	return s, nil
}

// URL returns the address the server listens on.
func (s *Server) URL() string {
	addr := s.listener.Addr().(*net.TCPAddr)
	host := "localhost"
	if ip := addr.IP; ip != nil && !ip.IsUnspecified() && !ip.IsLoopback() {
		host = ip.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(addr.Port))
}

// Serve blocks until ctx is cancelled, then shuts the server down.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()

	s.logger.Info(fmt.Sprintf("serving %s at %s", s.root, s.URL()))
	if s.open {
		if err := s.openBrowser(s.URL()); err != nil {
			s.logger.Warn(fmt.Sprintf("could not open browser: %v", err))
		}
	}

	select {
	case err := <-errCh:
		s.hub.Shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	case <-ctx.Done():
	}

	s.hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	return nil
}

// Reload asks every client to reload the page.
func (s *Server) Reload() {
	s.hub.Broadcast(Event{Type: eventReload})
}

// ReloadCSS asks every client to swap the given stylesheets. Paths are files
// under the served root.
func (s *Server) ReloadCSS(paths ...string) {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, s.urlPath(p))
	}
	s.hub.Broadcast(Event{Type: eventCSS, Paths: urls})
}

func (s *Server) urlPath(path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(s.root, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return "/" + strings.TrimPrefix(filepath.ToSlash(path), "/")
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.requests.WithLabelValues(strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func serveScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(clientScript))
}

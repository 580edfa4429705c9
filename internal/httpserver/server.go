// Package httpserver exposes the key issuance operations over HTTP for
// the sidekeyd daemon. Authentication happens upstream: the fronting
// session proxy resolves the user's session and forwards the profile id
// in the X-Side-Profile header. The daemon itself never sees session
// state, only explicit caller identities.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sidelith/side/internal/issuer"
	"github.com/sidelith/side/internal/profile"
)

// ProfileHeader carries the authenticated caller's profile id.
const ProfileHeader = "X-Side-Profile"

// KeyIssuer is the slice of the issuer the server needs.
type KeyIssuer interface {
	IssueKey(ctx context.Context, caller issuer.Caller) (*issuer.IssuedKey, error)
}

type Config struct {
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Log          logrus.FieldLogger
}

type Server struct {
	cfg      Config
	log      logrus.FieldLogger
	issuer   KeyIssuer
	profiles profile.Store
	srv      *http.Server
}

func New(cfg Config, keys KeyIssuer, profiles profile.Store) *Server {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	s := &Server{
		cfg:      cfg,
		log:      cfg.Log,
		issuer:   keys,
		profiles: profiles,
	}
	s.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) router() http.Handler {
	mux := chi.NewRouter()
	mux.Use(s.requestLogger)

	mux.Post("/v1/keys", s.handleIssueKey)
	mux.Get("/v1/keys", s.handleGetKey)

	mux.Get("/livez", s.handleLiveness)
	mux.Get("/readyz", s.handleReadiness)
	return mux
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe blocks until the context is canceled or the listener
// fails, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()
	s.log.WithField("addr", s.cfg.ListenAddr).Info("key service listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	err := <-errCh
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// requestLogger tags each request with an id and logs method, path,
// status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"request":  reqID,
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	// Ready when the store answers; probe with a lookup that is cheap and
	// expected to miss.
	_, err := s.profiles.Get(r.Context(), "readyz-probe")
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

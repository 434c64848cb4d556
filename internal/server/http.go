// Package server exposes stored exports and their rendered pages over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/blockmark/internal/db"
	"github.com/mithrel/blockmark/internal/export"
	"github.com/mithrel/blockmark/internal/pages"
	"github.com/mithrel/blockmark/internal/present/format"
)

// maxPayload bounds the size of an uploaded export.
const maxPayload = 64 << 20

// Server serves the HTTP API backed by a page service.
type Server struct {
	cfg   *viper.Viper
	pages *pages.Service
	log   *zap.Logger
}

func New(cfg *viper.Viper, svc *pages.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, pages: svc, log: log}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(s.auth)
	v1.HandleFunc("/exports", s.handleListExports).Methods(http.MethodGet)
	v1.HandleFunc("/exports/{name}", s.handleImport).Methods(http.MethodPost, http.MethodPut)
	v1.HandleFunc("/exports/{name}", s.handleDelete).Methods(http.MethodDelete)
	v1.HandleFunc("/exports/{name}/pages", s.handleListPages).Methods(http.MethodGet)
	v1.HandleFunc("/exports/{name}/pages/{id}", s.handlePage).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.CompressHandler(h)
	h = handlers.CustomLoggingHandler(io.Discard, h, s.logRequest)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(zap.NewStdLog(s.log)))(h)
	return h
}

func (s *Server) logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	s.log.Debug("request",
		zap.String("method", p.Request.Method),
		zap.String("path", p.URL.Path),
		zap.Int("status", p.StatusCode),
		zap.Int("size", p.Size),
	)
}

// auth requires a bearer token when auth.token is configured.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(s.cfg.GetString("auth.token"))
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(tok)) != 1 {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	list, err := s.pages.Exports(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayload))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	info, err := s.pages.Import(r.Context(), name, b)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.pages.Delete(r.Context(), mux.Vars(r)["name"]); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	list, err := s.pages.List(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if isTrue(r.URL.Query().Get("fragment")) {
		_, frag, err := s.pages.Fragment(r.Context(), vars["name"], vars["id"])
		if err != nil {
			s.fail(w, err)
			return
		}
		_, _ = io.WriteString(w, frag)
		return
	}
	// Render into memory first so failures still produce a clean status.
	var b strings.Builder
	if _, err := s.pages.Document(r.Context(), &b, vars["name"], vars["id"]); err != nil {
		s.fail(w, err)
		return
	}
	_, _ = io.WriteString(w, b.String())
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// fail maps service errors to status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound), errors.Is(err, pages.ErrPageNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, pages.ErrInvalidName), errors.Is(err, export.ErrNoBlocks), errors.Is(err, export.ErrMalformed):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = format.WriteJSON(w, v, false)
}

// ListenAndServe serves on http_addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.GetString("http_addr"),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("serving", zap.String("addr", srv.Addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

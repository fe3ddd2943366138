package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openairmap/openairmap/internal/config"
	"github.com/openairmap/openairmap/internal/geo"
	"github.com/openairmap/openairmap/internal/logger"
	"github.com/openairmap/openairmap/internal/models"
	"github.com/openairmap/openairmap/internal/store"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{
		log: log,
		cfg: cfg,
		st:  store.New(cfg.DataDir, log),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/api/countries", srv.handleCountries)
	r.Get("/api/countries/{code}", srv.handleCountry)
	r.Get("/api/countries/{code}/geojson", srv.handleCountryGeoJSON)

	// The generated data files and the viewer are served as-is; the viewer
	// fetches the same two JSON shapes the api endpoints expose.
	r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.Dir(cfg.DataDir))))
	r.Handle("/*", http.FileServer(http.Dir(cfg.WebDir)))

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log *slog.Logger
	cfg *config.API
	st  *store.Store
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.cfg.DataDir); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "data directory unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCountries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.st.ReadIndex()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no data published yet"})
			return
		}
		s.log.Error("read index", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load countries"})
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *server) handleCountry(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadCountry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *server) handleCountryGeoJSON(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadCountry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, geo.FeatureCollection(doc.Airports))
}

func (s *server) loadCountry(w http.ResponseWriter, r *http.Request) (*models.CountryFile, bool) {
	code := parseCode(chi.URLParam(r, "code"))
	if len(code) != 2 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "country code must be two letters"})
		return nil, false
	}

	doc, err := s.st.ReadCountry(code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown country"})
			return nil, false
		}
		s.log.Error("read country", slog.String("code", code), slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load country"})
		return nil, false
	}

	return doc, true
}

func parseCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}

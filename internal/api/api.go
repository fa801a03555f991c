// Package api serves truss analysis over HTTP.
//
//	POST /api/analyze           scenario JSON -> analysis document
//	POST /api/classify          scenario JSON -> stability report
//	POST /api/report/{format}   scenario JSON -> pdf, xlsx, svg or png
//	GET  /api/presets           preset names
//	GET  /api/presets/{name}    preset scenario
//
// Every request builds its own structure; handlers share no state.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/san-kum/trussim/internal/config"
	"github.com/san-kum/trussim/internal/diagram"
	"github.com/san-kum/trussim/internal/report"
	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/stability"
)

const maxBody = 1 << 20

type Options struct {
	RateLimit float64
	Burst     int
	Logger    *slog.Logger
}

type Handler struct {
	log *slog.Logger
}

// NewRouter returns the API routes wrapped in CORS and rate limiting.
func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &Handler{log: log}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	if opts.RateLimit > 0 {
		api.Use(NewIPRateLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1)).LimitMiddleware)
	}
	api.Use(h.logMiddleware)

	api.HandleFunc("/analyze", h.Analyze).Methods("POST")
	api.HandleFunc("/classify", h.Classify).Methods("POST")
	api.HandleFunc("/report/{format:pdf|xlsx|svg|png}", h.Report).Methods("POST")
	api.HandleFunc("/presets", h.Presets).Methods("GET")
	api.HandleFunc("/presets/{name}", h.Preset).Methods("GET")

	return CORS(r)
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Info("request", "method", r.Method, "path", r.URL.Path, "remote", clientIP(r), "took", time.Since(start))
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decode reads a scenario body and builds its structure. It writes the error
// response itself and returns false on failure.
func decode(w http.ResponseWriter, r *http.Request) (*config.Scenario, bool) {
	var sc config.Scenario
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return nil, false
	}
	if sc.Name == "" {
		sc.Name = "request"
	}
	return &sc, true
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	sc, ok := decode(w, r)
	if !ok {
		return
	}
	s, err := sc.Structure()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := report.WriteJSON(w, report.Analyze(sc.Name, s)); err != nil {
		h.log.Error("write analysis", "err", err)
	}
}

type classifyResponse struct {
	Stable  bool   `json:"stable"`
	Reason  string `json:"reason"`
	Flagged []int  `json:"flagged"`
}

func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	sc, ok := decode(w, r)
	if !ok {
		return
	}
	s, err := sc.Structure()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rep := stability.Classify(s.Joints, s.Beams, solver.ReactionUnknowns)
	writeJSON(w, http.StatusOK, classifyResponse{Stable: rep.Stable, Reason: rep.Reason, Flagged: rep.Flagged})
}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"svg":  "image/svg+xml",
	"png":  "image/png",
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]
	sc, ok := decode(w, r)
	if !ok {
		return
	}
	s, err := sc.Structure()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rep := report.Analyze(sc.Name, s)

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", `attachment; filename="truss.`+format+`"`)
	switch format {
	case "pdf":
		err = report.WritePDF(w, rep)
	case "xlsx":
		err = report.WriteXLSX(w, rep)
	case "svg":
		_, err = w.Write([]byte(diagram.SVG(s, rep.Result, 800, 600)))
	case "png":
		err = diagram.WriteImage(w, "png", sc.Name, s, rep.Result)
	}
	if err != nil {
		h.log.Error("write report", "format", format, "err", err)
	}
}

func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.ListPresets())
}

func (h *Handler) Preset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	sc := config.GetPreset(name)
	if sc == nil {
		writeError(w, http.StatusNotFound, "unknown preset: "+name)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

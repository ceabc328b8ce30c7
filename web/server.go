// Package web serves the browser build of crossmath: an embedded page, the
// compiled wasm module and a small JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/phanxgames/crossmath"
)

//go:embed static/*
var assets embed.FS

const (
	wasmFile = "crossmath.wasm"
	execFile = "wasm_exec.js"
)

// Options configures the router.
type Options struct {
	// Dist holds crossmath.wasm and wasm_exec.js.
	Dist   string
	Logger *log.Logger
	// Puzzle and Roster default to the built-in game.
	Puzzle crossmath.PuzzleLayout
	Roster []crossmath.Tile
}

// NewRouter returns the HTTP handler for the web build.
func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Puzzle == nil {
		opts.Puzzle = crossmath.DefaultPuzzle
	}
	if opts.Roster == nil {
		opts.Roster = crossmath.DefaultRoster
	}
	h := &handlers{opts: opts}

	r := chi.NewRouter()
	r.Use(requestLogger(opts.Logger))
	r.Get("/", h.index)
	r.Get("/"+execFile, h.dist(execFile, "text/javascript; charset=utf-8"))
	r.Get("/"+wasmFile, h.dist(wasmFile, "application/wasm"))
	r.Get("/api/layout", h.layout)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

type handlers struct {
	opts Options
}

func (h *handlers) index(w http.ResponseWriter, _ *http.Request) {
	page, err := fs.ReadFile(assets, "static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// dist serves name from the dist directory with a fixed content type.
func (h *handlers) dist(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(h.opts.Dist, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				writeJSON(w, http.StatusNotFound, errorResp{Error: fmt.Sprintf("%s not built; run make wasm", name)})
				return
			}
			writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, path)
	}
}

type errorResp struct {
	Error string `json:"error"`
}

// LayoutResponse is the body of GET /api/layout.
type LayoutResponse struct {
	Profile   crossmath.Profile `json:"profile"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Threshold float64           `json:"threshold"`
	Layout    crossmath.Layout  `json:"layout"`
	Staging   []crossmath.Vec2  `json:"staging"`
	Button    crossmath.Rect    `json:"button"`
	Tiles     []crossmath.Tile  `json:"tiles"`
}

func (h *handlers) layout(w http.ResponseWriter, r *http.Request) {
	profile := crossmath.Profile(r.URL.Query().Get("profile"))
	if profile == "" {
		profile = crossmath.ProfileWeb
	}
	cfg := crossmath.DefaultConfig(profile)
	if err := cfg.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	geo, err := cfg.Geometry(h.opts.Puzzle, len(h.opts.Roster))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		Profile:   profile,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Threshold: geo.Threshold,
		Layout:    geo.Layout,
		Staging:   geo.Staging,
		Button:    geo.Button,
		Tiles:     h.opts.Roster,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger logs method, path, status, bytes and duration per request.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			logger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"dur", time.Since(start).Round(time.Millisecond),
			)
		})
	}
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	httpadapter "svw.info/automaze/internal/adapters/http"
	"svw.info/automaze/internal/generator"
	"svw.info/automaze/internal/hint"
	"svw.info/automaze/internal/infrastructure/storage"
	"svw.info/automaze/internal/ports"
	"svw.info/automaze/internal/solver"
	"svw.info/automaze/internal/usecase"
	"svw.info/automaze/internal/validator"
)

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

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
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

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func main() {
	defaults := generator.DefaultOptions()
	addr := flag.String("addr", ":8080", "listen address")
	persist := flag.String("persist-path", "./data", "directory for saved levels and player_stats.csv")
	levelStr := flag.String("log-level", "info", "debug|info|warn|error")
	solverKind := flag.String("solver", "greedy", "path measure: greedy|shortest")
	width := flag.Int("width", defaults.Width, "grid width including the border")
	height := flag.Int("height", defaults.Height, "grid height including the border")
	maxAttempts := flag.Int("max-attempts", defaults.MaxAttempts, "grids tried per level before giving up")
	timeout := flag.Duration("timeout", defaults.Timeout, "wall-clock cap per level generation")
	workers := flag.Int("workers", defaults.Workers, "parallel attempt loops per generation")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(*levelStr)}))
	if err := os.MkdirAll(*persist, 0o755); err != nil {
		logger.Error("persist dir", "path", *persist, "err", err)
		os.Exit(1)
	}

	// Greedy is the measure tiers are calibrated against; shortest reports true minima.
	var s ports.Solver
	switch strings.ToLower(strings.TrimSpace(*solverKind)) {
	case "shortest", "bfs":
		s = solver.NewShortestSolver()
	default:
		s = solver.NewGreedySolver()
	}

	opts := generator.Options{
		Width:       *width,
		Height:      *height,
		MaxAttempts: *maxAttempts,
		Timeout:     *timeout,
		Workers:     *workers,
	}

	// Wire providers → use cases → HTTP adapter
	g := generator.NewLevelGenerator(s, opts)
	st := storage.NewFS(*persist)
	uc := usecase.NewService(s, g, validator.New(), hint.NewNextStep(s), st, st)
	uc.Logger = logger
	h := httpadapter.New(uc)

	mux := http.NewServeMux()
	h.Register(mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("listening", "addr", *addr, "persist", *persist, "solver", *solverKind,
		"grid", [2]int{opts.Width, opts.Height}, "workers", opts.Workers)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

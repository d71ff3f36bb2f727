// CLAUDE:SUMMARY Entry point for the websnap HTTP service — chi router, shield stack, Rod browser, SQLite ledger, optional MCP stdio.
// Command websnap is the screenshot capture service.
//
// Usage:
//
//	websnap                          # env-configured, listens on :8080
//	CONFIG_FILE=websnap.yaml websnap # YAML-configured
package main

import (
	"context"
	"embed"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/websnap/dbopen"
	"github.com/hazyhaar/websnap/observability"
	"github.com/hazyhaar/websnap/shield"
	"github.com/hazyhaar/websnap/snapshot"
	"github.com/hazyhaar/websnap/internal/browser"
	"github.com/hazyhaar/websnap/internal/store"
	"github.com/hazyhaar/websnap/internal/sweep"
)

//go:embed static
var staticFS embed.FS

func main() {
	port := env("PORT", "8080")
	ledgerPath := env("LEDGER_DB", "db/captures.db")
	obsPath := env("OBS_DB", "db/observability.db")
	mcpTransport := env("MCP_TRANSPORT", "")
	logLevel := env("LOG_LEVEL", "info")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Service config: YAML file when given, env overrides on top.
	cfg := snapshot.DefaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := snapshot.LoadConfigFile(path)
		if err != nil {
			slog.Error("config file", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if dir := os.Getenv("STORAGE_DIR"); dir != "" {
		cfg.StorageDir = dir
	}
	if remote := os.Getenv("BROWSER_REMOTE"); remote != "" {
		cfg.Browser.Remote = remote
	}

	// Capture ledger DB.
	ledgerDB, err := dbopen.Open(ledgerPath, dbopen.WithMkdirAll(), dbopen.WithSchema(store.Schema))
	if err != nil {
		slog.Error("ledger db", "error", err)
		os.Exit(1)
	}
	defer ledgerDB.Close()
	ledger := store.NewLedger(ledgerDB)

	// Observability DB — separate file to keep its writes off the capture path.
	obsDB, err := dbopen.Open(obsPath, dbopen.WithMkdirAll(), dbopen.WithSchema(observability.Schema))
	if err != nil {
		slog.Error("observability db", "error", err)
		os.Exit(1)
	}
	defer obsDB.Close()
	events := observability.NewEventLogger(obsDB)
	metrics := observability.NewMetricsManager(obsDB, 100, 5*time.Second)
	defer metrics.Close()

	// Browser.
	mgr := browser.NewManager(browser.Config{
		RemoteURL:       cfg.Browser.Remote,
		MemoryLimit:     cfg.Browser.MemoryLimit,
		RecycleInterval: cfg.Browser.RecycleInterval,
		Logger:          logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		slog.Error("browser start", "error", err)
		os.Exit(1)
	}
	defer mgr.Close()
	renderer := browser.NewRenderer(mgr, cfg.NavTimeout)

	// Snapshot service.
	svc, err := snapshot.New(renderer, cfg, logger,
		snapshot.WithLedger(ledger),
		snapshot.WithEvents(events),
		snapshot.WithMetrics(metrics))
	if err != nil {
		slog.Error("snapshot service", "error", err)
		os.Exit(1)
	}

	// Retention sweeper.
	if !cfg.Retention.Disabled {
		sw := sweep.NewSweeper(svc.Files(), ledger, logger,
			cfg.Retention.MaxAge, cfg.Retention.CheckInterval)
		go sw.Run(ctx)
	}

	// Heartbeat.
	go heartbeatLoop(ctx, events)

	// Optional MCP over stdio.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "websnap",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)
		go func() {
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("mcp stdio", "error", err)
			}
		}()
	}

	// Router.
	r := chi.NewRouter()
	for _, mw := range shield.DefaultAPIStack() {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("static/index.html")
		if err != nil {
			http.Error(w, "not found", 404)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	svc.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port, "storage_dir", cfg.StorageDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func heartbeatLoop(ctx context.Context, events *observability.EventLogger) {
	hostname, _ := os.Hostname()
	pid := os.Getpid()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			events.LogHeartbeat(ctx, "websnap", pid, hostname)
		}
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

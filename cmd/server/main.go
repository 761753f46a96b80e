// Command server runs the event forum: the HTML pages and the JSON API over
// a single SQLite file.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sakif/event-forum/internal/config"
	"github.com/sakif/event-forum/internal/server"
	"github.com/sakif/event-forum/internal/session"
	"github.com/sakif/event-forum/web"
)

func main() {
	// Optional. godotenv.Load stops at the first missing file, so load them
	// one at a time. Earlier files and the real environment win.
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if !isMemoryPath(cfg.DBPath) {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	var sessions *session.Manager
	if cfg.SessionSecret != "" {
		sessions, err = session.NewManager(cfg.SessionSecret)
		if err != nil {
			logger.Error("invalid session secret", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		logger.Warn("SESSION_SECRET not set, viewer cookies are disabled")
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		DBPath:    cfg.DBPath,
		Templates: web.Templates(),
		Static:    web.Static(),
		Sessions:  sessions,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting event forum", slog.String("environment", cfg.Environment))
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// isMemoryPath reports DSNs that have no directory to create.
func isMemoryPath(p string) bool {
	return p == ":memory:" || strings.HasPrefix(p, "file:")
}

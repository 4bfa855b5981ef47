// main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/aiblog/blog-server/config"
	httpapi "github.com/aiblog/blog-server/http"
	"github.com/aiblog/blog-server/store"
	"github.com/aiblog/blog-server/summary"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, using system environment variables")
	}

	configPath := flag.String("config", "config.yaml", "path to configuration file")
	migrate := flag.Bool("migrate", false, "migrate posts.json into the SQLite database and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	if *migrate {
		n, err := store.MigrateJSONToSQLite(context.Background(), cfg.JSONPath(), cfg.DBPath())
		if err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Int("posts", n).Str("db", cfg.DBPath()).Msg("migration complete")
		return
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Backend).Msg("failed to open store")
	}
	defer st.Close()

	if err := st.SeedIfEmpty(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed store")
	}

	summarizer := summary.NewSummarizer(cfg.OpenAIKey, logger)
	server := httpapi.NewServer(st, summarizer, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend).Msg("blog API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendJSON:
		return store.NewJSONStore(cfg.JSONPath())
	case config.BackendSQLite:
		return store.OpenSQLite(cfg.DBPath())
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/survey/internal/adapters/fingerprint"
	"github.com/vncsmyrnk/survey/internal/adapters/handler/http"
	"github.com/vncsmyrnk/survey/internal/adapters/repository/ndjson"
	"github.com/vncsmyrnk/survey/internal/config"
	"github.com/vncsmyrnk/survey/internal/core/services"
	"github.com/vncsmyrnk/survey/pkg/logger"
)

func main() {
	cfg, err := config.Load("survey-server", os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	logger.Configure(logger.ParseLevel(cfg.LogLevel), cfg.LogFile)

	// Initialize Repositories
	voteRepo := ndjson.NewVoteRepository(cfg.DataDir)

	// Initialize Services
	voteService := services.NewVoteService(voteRepo, fingerprint.NewSaltedSHA256(cfg.IPSalt))
	resultService := services.NewResultService(voteRepo)

	surveyHandler := http.NewSurveyHandler(cfg.Survey, voteService, resultService, cfg.CookieSecure)
	handler := http.NewHandler(surveyHandler)
	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("survey_id", cfg.Survey.ID).
			Str("store", ndjson.FilePath(cfg.DataDir, cfg.Survey.ID)).
			Msg("Listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
}

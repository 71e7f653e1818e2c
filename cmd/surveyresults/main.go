package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/survey/internal/adapters/repository/ndjson"
	"github.com/vncsmyrnk/survey/internal/config"
	"github.com/vncsmyrnk/survey/internal/core/services"
	"github.com/vncsmyrnk/survey/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	var dataDir, surveyFile string

	flag.StringVar(&dataDir, "data-dir", envOr("SURVEY_DATA_DIR", "data"), "Directory holding the vote stores")
	flag.StringVar(&surveyFile, "survey", os.Getenv("SURVEY_FILE"), "Survey definition JSON file")
	flag.Parse()

	logger.Configure(zerolog.InfoLevel, "")

	survey, err := config.LoadSurvey(surveyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading survey")
	}

	resultService := services.NewResultService(ndjson.NewVoteRepository(dataDir))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := resultService.GetResults(ctx, survey)
	if err != nil {
		log.Fatal().Err(err).Str("survey_id", survey.ID).Msg("Error computing results")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("Error writing results")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

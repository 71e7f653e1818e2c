package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type Config struct {
	Addr         string
	DataDir      string
	SurveyFile   string
	IPSalt       string
	LogLevel     string
	LogFile      string
	CookieSecure bool

	Survey domain.Survey
}

// DefaultSurvey is served when no survey file is configured.
var DefaultSurvey = domain.Survey{
	ID:       "tech2025",
	Title:    "Which technology do you find most exciting?",
	Question: "Please choose one option:",
	Options: []string{
		"Solar",
		"Wind",
		"Hydro",
		"Biomass",
		"Geothermal",
		"Other",
	},
	EnableComment: true,
}

// Load reads .env (if present), then flags whose defaults come from the
// environment, and finally the survey definition.
func Load(name string, args []string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	var cfg Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", envOr("APP_ADDR", "0.0.0.0:8080"), "HTTP listen address")
	fs.StringVar(&cfg.DataDir, "data-dir", envOr("SURVEY_DATA_DIR", "data"), "Directory holding the vote stores")
	fs.StringVar(&cfg.SurveyFile, "survey", os.Getenv("SURVEY_FILE"), "Survey definition JSON file")
	fs.StringVar(&cfg.IPSalt, "ip-salt", os.Getenv("SURVEY_IP_SALT"), "Salt for hashing visitor addresses (prefer env)")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level")
	fs.StringVar(&cfg.LogFile, "log-file", envOr("LOG_FILE", "app.log"), "Rotated log file, empty for console only")
	fs.BoolVar(&cfg.CookieSecure, "cookie-secure", envBool("COOKIE_SECURE"), "Mark survey cookies Secure")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.IPSalt == "" {
		return Config{}, errors.New("SURVEY_IP_SALT required (use -ip-salt or env)")
	}

	survey, err := LoadSurvey(cfg.SurveyFile)
	if err != nil {
		return Config{}, err
	}
	cfg.Survey = survey

	return cfg, nil
}

// LoadSurvey decodes and validates a survey definition file. An empty path
// yields DefaultSurvey.
func LoadSurvey(path string) (domain.Survey, error) {
	if path == "" {
		return DefaultSurvey, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Survey{}, fmt.Errorf("failed to read survey file: %w", err)
	}

	var survey domain.Survey
	if err := json.Unmarshal(content, &survey); err != nil {
		return domain.Survey{}, fmt.Errorf("failed to decode survey file %s: %w", path, err)
	}
	if err := survey.Validate(); err != nil {
		return domain.Survey{}, err
	}
	return survey, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

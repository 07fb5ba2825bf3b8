package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avolkov/tourcal/internal/domain/league"
	"github.com/avolkov/tourcal/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	DBURL              string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	LeaguesFile string
	Leagues     []league.League

	MaxTourCount     int
	BatchWindow      time.Duration
	PipelineInterval time.Duration
	PipelineWorkers  int
	LeagueTimeout    time.Duration

	FeedBaseURL            string
	FeedToken              string
	FeedTimeout            time.Duration
	FeedMaxRetries         int
	FeedCircuitEnabled     bool
	FeedCircuitFailures    int
	FeedCircuitOpenTimeout time.Duration
	FeedCircuitProbeLimit  int

	TelegramEnabled  bool
	TelegramBotToken string

	InternalJobToken string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	maxTourCount, err := getEnvAsInt("MAX_TOUR_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_TOUR_COUNT: %w", err)
	}
	if maxTourCount < 1 {
		return Config{}, fmt.Errorf("MAX_TOUR_COUNT must be >= 1")
	}

	batchWindow, err := getEnvAsDuration("BATCH_WINDOW", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse BATCH_WINDOW: %w", err)
	}

	pipelineInterval, err := getEnvAsDuration("PIPELINE_INTERVAL", time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_INTERVAL: %w", err)
	}
	pipelineWorkers, err := getEnvAsInt("PIPELINE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_WORKERS: %w", err)
	}
	leagueTimeout, err := getEnvAsDuration("PIPELINE_LEAGUE_TIMEOUT", 2*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_LEAGUE_TIMEOUT: %w", err)
	}

	feedTimeout, err := getEnvAsDuration("FEED_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_TIMEOUT: %w", err)
	}
	feedMaxRetries, err := getEnvAsInt("FEED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MAX_RETRIES: %w", err)
	}
	feedCircuitEnabled, err := strconv.ParseBool(getEnv("FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_ENABLED: %w", err)
	}
	feedCircuitFailures, err := getEnvAsInt("FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	feedCircuitOpenTimeout, err := getEnvAsDuration("FEED_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	feedCircuitProbeLimit, err := getEnvAsInt("FEED_CIRCUIT_PROBE_LIMIT", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_PROBE_LIMIT: %w", err)
	}

	telegramEnabled, err := strconv.ParseBool(getEnv("TELEGRAM_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_ENABLED: %w", err)
	}
	telegramBotToken := strings.TrimSpace(getEnv("TELEGRAM_BOT_TOKEN", ""))
	if telegramEnabled && telegramBotToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required when TELEGRAM_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	serviceName := getEnv("SERVICE_NAME", "tourcal")

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        serviceName,
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DBURL:              strings.TrimSpace(getEnv("DATABASE_URL", "")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,

		LeaguesFile: getEnv("LEAGUES_FILE", "leagues.yaml"),

		MaxTourCount:     maxTourCount,
		BatchWindow:      batchWindow,
		PipelineInterval: pipelineInterval,
		PipelineWorkers:  pipelineWorkers,
		LeagueTimeout:    leagueTimeout,

		FeedBaseURL:            strings.TrimSpace(getEnv("FEED_BASE_URL", "")),
		FeedToken:              strings.TrimSpace(getEnv("FEED_TOKEN", "")),
		FeedTimeout:            feedTimeout,
		FeedMaxRetries:         feedMaxRetries,
		FeedCircuitEnabled:     feedCircuitEnabled,
		FeedCircuitFailures:    feedCircuitFailures,
		FeedCircuitOpenTimeout: feedCircuitOpenTimeout,
		FeedCircuitProbeLimit:  feedCircuitProbeLimit,

		TelegramEnabled:  telegramEnabled,
		TelegramBotToken: telegramBotToken,

		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", ":6060"),

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	leagues, err := LoadLeagues(cfg.LeaguesFile)
	if err != nil {
		return Config{}, err
	}
	cfg.Leagues = leagues

	return cfg, nil
}

type leaguesFile struct {
	Leagues []league.League `yaml:"leagues"`
}

// LoadLeagues reads the tracked-league list from a YAML file. A missing
// file is not an error; it simply means no leagues are configured yet.
func LoadLeagues(path string) ([]league.League, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read leagues file %s: %w", path, err)
	}

	var parsed leaguesFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse leagues file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(parsed.Leagues))
	for idx, lg := range parsed.Leagues {
		if err := lg.Validate(); err != nil {
			return nil, fmt.Errorf("leagues file %s: league %d: %w", path, idx, err)
		}
		if _, dup := seen[lg.ID]; dup {
			return nil, fmt.Errorf("leagues file %s: duplicate league id %q", path, lg.ID)
		}
		seen[lg.ID] = struct{}{}
	}

	return parsed.Leagues, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

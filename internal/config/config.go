package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtdata/nba-analytics/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DBURL string

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	InternalJobToken   string

	ProviderBaseURL     string
	ProviderAPIKey      string
	ProviderTimeout     time.Duration
	ProviderMaxRetries  int
	ProviderPerPage     int
	ProviderMinInterval time.Duration

	SyncAbortThreshold int
	StreakWorkerCount  int

	SchedulerEnabled bool
	SchedulerHourUTC int
	SchedulerSeason  int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheEnabled && cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0 when CACHE_ENABLED=true")
	}

	providerTimeout, err := time.ParseDuration(getEnv("BALLDONTLIE_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_TIMEOUT: %w", err)
	}
	if providerTimeout <= 0 {
		return Config{}, fmt.Errorf("BALLDONTLIE_TIMEOUT must be > 0")
	}
	providerMaxRetries, err := getEnvAsInt("BALLDONTLIE_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_MAX_RETRIES: %w", err)
	}
	if providerMaxRetries < 0 {
		return Config{}, fmt.Errorf("BALLDONTLIE_MAX_RETRIES must be >= 0")
	}
	providerPerPage, err := getEnvAsInt("BALLDONTLIE_PER_PAGE", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_PER_PAGE: %w", err)
	}
	if providerPerPage < 1 || providerPerPage > 100 {
		return Config{}, fmt.Errorf("BALLDONTLIE_PER_PAGE must be between 1 and 100")
	}
	providerMinInterval, err := time.ParseDuration(getEnv("BALLDONTLIE_MIN_INTERVAL", "100ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BALLDONTLIE_MIN_INTERVAL: %w", err)
	}
	if providerMinInterval <= 0 {
		return Config{}, fmt.Errorf("BALLDONTLIE_MIN_INTERVAL must be > 0")
	}

	syncAbortThreshold, err := getEnvAsInt("SYNC_ABORT_THRESHOLD", 25)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_ABORT_THRESHOLD: %w", err)
	}
	if syncAbortThreshold < 1 {
		return Config{}, fmt.Errorf("SYNC_ABORT_THRESHOLD must be >= 1")
	}
	streakWorkerCount, err := getEnvAsInt("STREAK_WORKER_COUNT", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAK_WORKER_COUNT: %w", err)
	}
	if streakWorkerCount < 1 {
		return Config{}, fmt.Errorf("STREAK_WORKER_COUNT must be >= 1")
	}

	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_ENABLED: %w", err)
	}
	schedulerHourUTC, err := getEnvAsInt("SCHEDULER_HOUR_UTC", 9)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_HOUR_UTC: %w", err)
	}
	if schedulerHourUTC < 0 || schedulerHourUTC > 23 {
		return Config{}, fmt.Errorf("SCHEDULER_HOUR_UTC must be between 0 and 23")
	}
	schedulerSeason, err := getEnvAsInt("SCHEDULER_SEASON", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_SEASON: %w", err)
	}
	if schedulerEnabled && schedulerSeason <= 0 {
		return Config{}, fmt.Errorf("SCHEDULER_SEASON is required when SCHEDULER_ENABLED=true")
	}

	providerAPIKey := strings.TrimSpace(getEnv("BALLDONTLIE_API_KEY", ""))

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
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	return Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "nba-analytics-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		DBURL: getEnv("DB_URL", ""),

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		ProviderBaseURL:     strings.TrimSpace(getEnv("BALLDONTLIE_BASE_URL", "https://api.balldontlie.io/v1")),
		ProviderAPIKey:      providerAPIKey,
		ProviderTimeout:     providerTimeout,
		ProviderMaxRetries:  providerMaxRetries,
		ProviderPerPage:     providerPerPage,
		ProviderMinInterval: providerMinInterval,

		SyncAbortThreshold: syncAbortThreshold,
		StreakWorkerCount:  streakWorkerCount,

		SchedulerEnabled: schedulerEnabled,
		SchedulerHourUTC: schedulerHourUTC,
		SchedulerSeason:  schedulerSeason,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "nba-analytics-api"),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fieldpass/fantasy-corps/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                       string
	ServiceName                  string
	ServiceVersion               string
	HTTPAddr                     string
	DBURL                        string
	CacheEnabled                 bool
	CacheTTL                     time.Duration
	CORSAllowedOrigins           []string
	ReadTimeout                  time.Duration
	WriteTimeout                 time.Duration
	PprofEnabled                 bool
	PprofAddr                    string
	SwaggerEnabled               bool
	CorpsAuthBaseURL             string
	CorpsAuthIntrospectPath      string
	CorpsAuthAdminKey            string
	CorpsAuthTimeout             time.Duration
	CorpsAuthCircuitEnabled      bool
	CorpsAuthCircuitFailureCount int
	CorpsAuthCircuitOpenTimeout  time.Duration
	CorpsAuthCircuitHalfOpenMax  int
	UptraceEnabled               bool
	UptraceDSN                   string
	UptraceLogsEnabled           bool
	PyroscopeEnabled             bool
	PyroscopeServerAddress       string
	PyroscopeAppName             string
	PyroscopeAuthToken           string
	PyroscopeBasicAuthUser       string
	PyroscopeBasicAuthPassword   string
	PyroscopeUploadRate          time.Duration
	StaffFeedEnabled             bool
	StaffFeedBaseURL             string
	StaffFeedToken               string
	StaffFeedTimeout             time.Duration
	StaffFeedMaxRetries          int
	StaffFeedCircuitEnabled      bool
	StaffFeedCircuitFailureCount int
	StaffFeedCircuitOpenTimeout  time.Duration
	StaffFeedCircuitHalfOpenMax  int
	InternalJobToken             string
	SweepEnabled                 bool
	SweepInterval                time.Duration
	SweepWorkers                 int
	AuctionMinDuration           time.Duration
	AuctionMaxDuration           time.Duration
	TradeLimit                   int
	SeasonPeriod                 string
	SeasonWeeksRemaining         int
	LogLevel                     logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
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

	staffFeedEnabled, err := strconv.ParseBool(getEnv("STAFF_FEED_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STAFF_FEED_ENABLED: %w", err)
	}
	staffFeedTimeout, err := time.ParseDuration(getEnv("STAFF_FEED_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STAFF_FEED_TIMEOUT: %w", err)
	}
	if staffFeedTimeout <= 0 {
		return Config{}, fmt.Errorf("STAFF_FEED_TIMEOUT must be > 0")
	}
	staffFeedMaxRetries, err := getEnvAsInt("STAFF_FEED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STAFF_FEED_MAX_RETRIES: %w", err)
	}
	if staffFeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("STAFF_FEED_MAX_RETRIES must be >= 0")
	}
	staffFeedCircuitEnabled, err := strconv.ParseBool(getEnv("STAFF_FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STAFF_FEED_CIRCUIT_ENABLED: %w", err)
	}
	staffFeedCircuitFailureCount, err := getEnvAsInt("STAFF_FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STAFF_FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if staffFeedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STAFF_FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	staffFeedCircuitOpenTimeout, err := time.ParseDuration(getEnv("STAFF_FEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STAFF_FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if staffFeedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("STAFF_FEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	staffFeedCircuitHalfOpenMax, err := getEnvAsInt("STAFF_FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STAFF_FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if staffFeedCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("STAFF_FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	staffFeedBaseURL := strings.TrimSpace(getEnv("STAFF_FEED_BASE_URL", ""))
	staffFeedToken := strings.TrimSpace(getEnv("STAFF_FEED_TOKEN", ""))
	if staffFeedEnabled && staffFeedBaseURL == "" {
		return Config{}, fmt.Errorf("STAFF_FEED_BASE_URL is required when STAFF_FEED_ENABLED=true")
	}

	sweepEnabled, err := strconv.ParseBool(getEnv("SWEEP_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWEEP_ENABLED: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("SWEEP_INTERVAL", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWEEP_INTERVAL: %w", err)
	}
	if sweepInterval <= 0 {
		return Config{}, fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	sweepWorkers, err := getEnvAsInt("SWEEP_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SWEEP_WORKERS: %w", err)
	}
	if sweepWorkers < 1 {
		return Config{}, fmt.Errorf("SWEEP_WORKERS must be >= 1")
	}

	auctionMinDuration, err := time.ParseDuration(getEnv("AUCTION_MIN_DURATION", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUCTION_MIN_DURATION: %w", err)
	}
	auctionMaxDuration, err := time.ParseDuration(getEnv("AUCTION_MAX_DURATION", "48h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUCTION_MAX_DURATION: %w", err)
	}
	if auctionMinDuration <= 0 || auctionMaxDuration < auctionMinDuration {
		return Config{}, fmt.Errorf("auction durations must satisfy 0 < AUCTION_MIN_DURATION <= AUCTION_MAX_DURATION")
	}

	tradeLimit, err := getEnvAsInt("TRADE_LIMIT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRADE_LIMIT: %w", err)
	}
	if tradeLimit < 1 {
		return Config{}, fmt.Errorf("TRADE_LIMIT must be >= 1")
	}

	seasonWeeksRemaining, err := getEnvAsInt("SEASON_WEEKS_REMAINING", 12)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_WEEKS_REMAINING: %w", err)
	}
	if seasonWeeksRemaining < 0 {
		return Config{}, fmt.Errorf("SEASON_WEEKS_REMAINING must be >= 0")
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "fantasy-corps-api"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                     getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                        getEnv("DB_URL", ""),
		CORSAllowedOrigins:           splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                 pprofEnabled,
		PprofAddr:                    pprofAddr,
		SwaggerEnabled:               swaggerEnabled,
		CorpsAuthBaseURL:             getEnv("CORPSAUTH_BASE_URL", "http://localhost:8081"),
		CorpsAuthIntrospectPath:      getEnv("CORPSAUTH_INTROSPECT_PATH", "/v1/auth/introspect"),
		CorpsAuthAdminKey:            getEnv("CORPSAUTH_ADMIN_KEY", ""),
		UptraceEnabled:               uptraceEnabled,
		UptraceDSN:                   uptraceDSN,
		UptraceLogsEnabled:           uptraceLogsEnabled,
		PyroscopeEnabled:             pyroscopeEnabled,
		PyroscopeServerAddress:       pyroscopeServerAddress,
		PyroscopeAuthToken:           strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:   strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:          pyroscopeUploadRate,
		StaffFeedEnabled:             staffFeedEnabled,
		StaffFeedBaseURL:             staffFeedBaseURL,
		StaffFeedToken:               staffFeedToken,
		StaffFeedTimeout:             staffFeedTimeout,
		StaffFeedMaxRetries:          staffFeedMaxRetries,
		StaffFeedCircuitEnabled:      staffFeedCircuitEnabled,
		StaffFeedCircuitFailureCount: staffFeedCircuitFailureCount,
		StaffFeedCircuitOpenTimeout:  staffFeedCircuitOpenTimeout,
		StaffFeedCircuitHalfOpenMax:  staffFeedCircuitHalfOpenMax,
		InternalJobToken:             strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		SweepEnabled:                 sweepEnabled,
		SweepInterval:                sweepInterval,
		SweepWorkers:                 sweepWorkers,
		AuctionMinDuration:           auctionMinDuration,
		AuctionMaxDuration:           auctionMaxDuration,
		TradeLimit:                   tradeLimit,
		SeasonPeriod:                 strings.TrimSpace(getEnv("SEASON_PERIOD", "")),
		SeasonWeeksRemaining:         seasonWeeksRemaining,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.SeasonPeriod == "" {
		cfg.SeasonPeriod = defaultSeasonPeriod(time.Now().UTC())
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	corpsAuthTimeout, err := time.ParseDuration(getEnv("CORPSAUTH_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CORPSAUTH_TIMEOUT: %w", err)
	}

	corpsAuthCircuitEnabled, err := strconv.ParseBool(getEnv("CORPSAUTH_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CORPSAUTH_CIRCUIT_ENABLED: %w", err)
	}

	corpsAuthCircuitFailureCount, err := getEnvAsInt("CORPSAUTH_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CORPSAUTH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if corpsAuthCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CORPSAUTH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	corpsAuthCircuitOpenTimeout, err := time.ParseDuration(getEnv("CORPSAUTH_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CORPSAUTH_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if corpsAuthCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CORPSAUTH_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	corpsAuthCircuitHalfOpenMax, err := getEnvAsInt("CORPSAUTH_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CORPSAUTH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if corpsAuthCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("CORPSAUTH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.CorpsAuthTimeout = corpsAuthTimeout
	cfg.CorpsAuthCircuitEnabled = corpsAuthCircuitEnabled
	cfg.CorpsAuthCircuitFailureCount = corpsAuthCircuitFailureCount
	cfg.CorpsAuthCircuitOpenTimeout = corpsAuthCircuitOpenTimeout
	cfg.CorpsAuthCircuitHalfOpenMax = corpsAuthCircuitHalfOpenMax
	cfg.LogLevel = logLevel

	return cfg, nil
}

// defaultSeasonPeriod derives a stable scoring-period key from the calendar
// week when SEASON_PERIOD is not set.
func defaultSeasonPeriod(now time.Time) string {
	year, week := now.ISOWeek()
	return fmt.Sprintf("%d-wk%02d", year, week)
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

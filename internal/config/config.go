package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-desk/internal/platform/logging"
	"github.com/riskibarqy/tournament-desk/internal/platform/resilience"
)

const (
	StoreBackendCSV      = "csv"
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                   string
	ServiceName              string
	ServiceVersion           string
	HTTPAddr                 string
	ReadTimeout              time.Duration
	WriteTimeout             time.Duration
	LogLevel                 logging.Level
	LogFormat                string
	CORSAllowedOrigins       []string
	StoreBackend             string
	StoreCSVPath             string
	StoreSeedDemo            bool
	DBURL                    string
	DBDisablePreparedBinary  bool
	DBCircuit                resilience.CircuitBreakerConfig
	CacheEnabled             bool
	CacheTTL                 time.Duration
	PprofEnabled             bool
	PprofAddr                string
	UptraceEnabled           bool
	UptraceDSN               string
	PyroscopeEnabled         bool
	PyroscopeServerAddress   string
	PyroscopeAppName         string
	PyroscopeAuthToken       string
	PyroscopeBasicAuthUser   string
	PyroscopeBasicAuthPasswd string
	PyroscopeUploadRate      time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeBackend, err := parseStoreBackend(getEnv("STORE_BACKEND", StoreBackendCSV))
	if err != nil {
		return Config{}, err
	}
	storeCSVPath := strings.TrimSpace(getEnv("STORE_CSV_PATH", "sports_tournament_dataset.csv"))
	storeSeedDemo, err := strconv.ParseBool(getEnv("STORE_SEED_DEMO", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STORE_SEED_DEMO: %w", err)
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeBackend == StoreBackendPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_BACKEND=%s", StoreBackendPostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbCircuit, err := loadDBCircuit()
	if err != nil {
		return Config{}, err
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "false"))
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

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	logFormat := strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", "json")))
	if logFormat != "json" && logFormat != "console" {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are json, console", logFormat)
	}

	cfg := Config{
		AppEnv:                   appEnv,
		ServiceName:              getEnv("APP_SERVICE_NAME", "tournament-desk-api"),
		ServiceVersion:           getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                 getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:              readTimeout,
		WriteTimeout:             writeTimeout,
		LogLevel:                 logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:                logFormat,
		CORSAllowedOrigins:       splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StoreBackend:             storeBackend,
		StoreCSVPath:             storeCSVPath,
		StoreSeedDemo:            storeSeedDemo,
		DBURL:                    dbURL,
		DBDisablePreparedBinary:  dbDisablePreparedBinary,
		DBCircuit:                dbCircuit,
		CacheEnabled:             cacheEnabled,
		CacheTTL:                 cacheTTL,
		PprofEnabled:             pprofEnabled,
		PprofAddr:                pprofAddr,
		UptraceEnabled:           uptraceEnabled,
		UptraceDSN:               uptraceDSN,
		PyroscopeEnabled:         pyroscopeEnabled,
		PyroscopeServerAddress:   pyroscopeServerAddress,
		PyroscopeAuthToken:       strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:   strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPasswd: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:      pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.StoreBackend == StoreBackendCSV && cfg.StoreCSVPath == "" {
		return Config{}, fmt.Errorf("STORE_CSV_PATH cannot be empty when STORE_BACKEND=%s", StoreBackendCSV)
	}

	return cfg, nil
}

// loadDBCircuit reads the DB_CIRCUIT_* keys on top of the breaker defaults.
func loadDBCircuit() (resilience.CircuitBreakerConfig, error) {
	cfg := resilience.DefaultCircuitBreakerConfig()

	var err error
	if cfg.Enabled, err = strconv.ParseBool(getEnv("DB_CIRCUIT_ENABLED", strconv.FormatBool(cfg.Enabled))); err != nil {
		return cfg, fmt.Errorf("parse DB_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.FailureThreshold, err = getEnvAsInt("DB_CIRCUIT_FAILURE_COUNT", cfg.FailureThreshold); err != nil {
		return cfg, fmt.Errorf("parse DB_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.OpenTimeout, err = time.ParseDuration(getEnv("DB_CIRCUIT_OPEN_TIMEOUT", cfg.OpenTimeout.String())); err != nil {
		return cfg, fmt.Errorf("parse DB_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cfg.HalfOpenMaxReq, err = getEnvAsInt("DB_CIRCUIT_HALF_OPEN_MAX_REQ", cfg.HalfOpenMaxReq); err != nil {
		return cfg, fmt.Errorf("parse DB_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("DB_CIRCUIT_*: %w", err)
	}
	return cfg, nil
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

func parseStoreBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StoreBackendCSV, StoreBackendMemory, StoreBackendPostgres:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORE_BACKEND %q: valid values are %s, %s, %s", v, StoreBackendCSV, StoreBackendMemory, StoreBackendPostgres)
	}
}

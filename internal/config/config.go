package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/courtside-sync/internal/domain/bitable"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
	"github.com/riskibarqy/courtside-sync/internal/platform/resilience"
)

const (
	BackendFeishu = "feishu"
	BackendMemory = "memory"
)

const (
	defaultLoginUsername = "admin"
	defaultLoginPassword = "admin123"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	LogLevel                   logging.Level
	CORSAllowedOrigins         []string
	StaticDir                  string
	SwaggerEnabled             bool
	BitableBackend             string
	FeishuBaseURL              string
	FeishuAppID                string
	FeishuAppSecret            string
	FeishuAppToken             string
	FeishuTimeout              time.Duration
	FeishuCircuitBreaker       resilience.CircuitBreakerConfig
	Tables                     bitable.Tables
	MatchLocation              *time.Location
	LoginUsername              string
	LoginPassword              string
	SessionTTL                 time.Duration
	SessionSweepInterval       time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
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

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	feishuTimeout, err := time.ParseDuration(getEnv("FEISHU_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEISHU_TIMEOUT: %w", err)
	}
	if feishuTimeout <= 0 {
		return Config{}, fmt.Errorf("FEISHU_TIMEOUT must be > 0")
	}
	feishuBreaker, err := loadCircuitBreaker("FEISHU")
	if err != nil {
		return Config{}, err
	}

	tables, err := bitable.NewTables(
		bitable.Table{
			Role:   bitable.RolePlayer,
			ID:     getEnv("FEISHU_PLAYER_TABLE_ID", "tblK0ZVeOvXnzaLe"),
			ViewID: getEnv("FEISHU_PLAYER_VIEW_ID", "vewiURewir"),
		},
		bitable.Table{
			Role:   bitable.RoleTeam,
			ID:     getEnv("FEISHU_TEAM_TABLE_ID", "tblK9ypDJ2sFyC6i"),
			ViewID: getEnv("FEISHU_TEAM_VIEW_ID", "vewiURewir"),
		},
		bitable.Table{
			Role:   bitable.RoleDetail,
			ID:     getEnv("FEISHU_DETAIL_TABLE_ID", "tblZwxf96Tw1EC71"),
			ViewID: getEnv("FEISHU_DETAIL_VIEW_ID", "vewq4i29ck"),
		},
	)
	if err != nil {
		return Config{}, fmt.Errorf("load bitable tables: %w", err)
	}

	matchLocation, err := parseLocation(getEnv("MATCH_TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_TIMEZONE: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	if sessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be > 0")
	}
	sessionSweepInterval, err := time.ParseDuration(getEnv("SESSION_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_SWEEP_INTERVAL: %w", err)
	}
	if sessionSweepInterval <= 0 {
		return Config{}, fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0")
	}

	backend, err := parseBackend(getEnv("BITABLE_BACKEND", BackendFeishu))
	if err != nil {
		return Config{}, err
	}
	if appEnv == EnvProd && backend != BackendFeishu {
		return Config{}, fmt.Errorf("BITABLE_BACKEND=%s is not allowed when APP_ENV=%s", backend, EnvProd)
	}

	httpAddr := getEnv("APP_HTTP_ADDR", "")
	if strings.TrimSpace(httpAddr) == "" {
		httpAddr = ":" + getEnv("PORT", "3000")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "courtside-sync"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   httpAddr,
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StaticDir:                  strings.TrimSpace(getEnv("STATIC_DIR", "")),
		SwaggerEnabled:             swaggerEnabled,
		BitableBackend:             backend,
		FeishuBaseURL:              strings.TrimRight(strings.TrimSpace(getEnv("FEISHU_BASE_URL", "https://open.feishu.cn/open-apis")), "/"),
		FeishuAppID:                strings.TrimSpace(getEnv("FEISHU_APP_ID", "")),
		FeishuAppSecret:            strings.TrimSpace(getEnv("FEISHU_APP_SECRET", "")),
		FeishuAppToken:             strings.TrimSpace(getEnv("FEISHU_APP_TOKEN", "")),
		FeishuTimeout:              feishuTimeout,
		FeishuCircuitBreaker:       feishuBreaker,
		Tables:                     tables,
		MatchLocation:              matchLocation,
		LoginUsername:              getEnv("LOGIN_USERNAME", defaultLoginUsername),
		LoginPassword:              getEnv("LOGIN_PASSWORD", defaultLoginPassword),
		SessionTTL:                 sessionTTL,
		SessionSweepInterval:       sessionSweepInterval,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if cfg.FeishuBaseURL == "" {
		return Config{}, fmt.Errorf("FEISHU_BASE_URL must not be empty")
	}
	if appEnv == EnvProd {
		if err := validateProd(cfg); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func validateProd(cfg Config) error {
	var missing []string
	if cfg.FeishuAppID == "" {
		missing = append(missing, "FEISHU_APP_ID")
	}
	if cfg.FeishuAppSecret == "" {
		missing = append(missing, "FEISHU_APP_SECRET")
	}
	if cfg.FeishuAppToken == "" {
		missing = append(missing, "FEISHU_APP_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required when APP_ENV=%s", strings.Join(missing, ", "), EnvProd)
	}
	if cfg.LoginPassword == defaultLoginPassword {
		return fmt.Errorf("LOGIN_PASSWORD must be overridden when APP_ENV=%s", EnvProd)
	}
	return nil
}

func loadCircuitBreaker(prefix string) (resilience.CircuitBreakerConfig, error) {
	defaults := resilience.DefaultCircuitBreakerConfig()
	cfg := defaults

	var err error
	if cfg.Enabled, err = strconv.ParseBool(getEnv(prefix+"_CIRCUIT_ENABLED", strconv.FormatBool(defaults.Enabled))); err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_ENABLED: %w", prefix, err)
	}
	if cfg.FailureThreshold, err = getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", defaults.FailureThreshold); err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if cfg.OpenTimeout, err = time.ParseDuration(getEnv(prefix+"_CIRCUIT_OPEN_TIMEOUT", defaults.OpenTimeout.String())); err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_OPEN_TIMEOUT: %w", prefix, err)
	}
	if cfg.HalfOpenMaxReq, err = getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", defaults.HalfOpenMaxReq); err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if err := cfg.Validate(); err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s circuit breaker: %w", prefix, err)
	}
	return cfg, nil
}

func parseBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case BackendFeishu, BackendMemory:
		return value, nil
	default:
		return "", fmt.Errorf("invalid BITABLE_BACKEND %q: valid values are %s, %s", v, BackendFeishu, BackendMemory)
	}
}

func parseLocation(v string) (*time.Location, error) {
	name := strings.TrimSpace(v)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
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
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
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

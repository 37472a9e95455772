package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultEnvironment     = "development"
	defaultAPIBaseURL      = "http://127.0.0.1:8080/api"
	defaultDashboardAddr   = ":3000"
	defaultAPIAddr         = ":8080"
	defaultRequestTimeout  = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultGatewayRPS      = 20.0
	defaultGatewayBurst    = 10
	defaultMaxListBytes    = 64 << 20
	defaultClientRPS       = 5.0
	defaultClientBurst     = 10
	defaultCategoriesTTL   = 10 * time.Minute
	defaultMetricsTTL      = 30 * time.Second
	defaultTokenTTL        = 15 * time.Minute
	defaultEventsQueue     = "inventory.products.events"
	defaultCachePrefix     = "dashboard"
	defaultReadHeaderLimit = 5 * time.Second
)

// Dashboard configures the dashboard binary.
type Dashboard struct {
	Environment       string
	HTTPAddr          string
	APIBaseURL        string
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration

	GatewayRPS   float64
	GatewayBurst int
	MaxListBytes int64
	ClientRPS    float64
	ClientBurst  int

	RedisURL      string
	CachePrefix   string
	CategoriesTTL time.Duration
	MetricsTTL    time.Duration

	RabbitMQURL string
	EventsQueue string

	JWTSecret         string
	TokenTTL          time.Duration
	AdminUser         string
	AdminPasswordHash string
}

// AuthEnabled reports whether mutations require a token.
func (d Dashboard) AuthEnabled() bool {
	return d.JWTSecret != ""
}

// API configures the development API binary.
type API struct {
	Environment       string
	HTTPAddr          string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
	SeedDemoData      bool
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", file, err)
		}
	}
	return v, nil
}

func LoadDashboard() (Dashboard, error) {
	v, err := newViper()
	if err != nil {
		return Dashboard{}, err
	}

	v.SetDefault("ENVIRONMENT", defaultEnvironment)
	v.SetDefault("DASHBOARD_ADDR", defaultDashboardAddr)
	v.SetDefault("API_BASE_URL", defaultAPIBaseURL)
	v.SetDefault("REQUEST_TIMEOUT", defaultRequestTimeout)
	v.SetDefault("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	v.SetDefault("READ_HEADER_TIMEOUT", defaultReadHeaderLimit)
	v.SetDefault("GATEWAY_RPS", defaultGatewayRPS)
	v.SetDefault("GATEWAY_BURST", defaultGatewayBurst)
	v.SetDefault("MAX_LIST_BYTES", defaultMaxListBytes)
	v.SetDefault("CLIENT_RPS", defaultClientRPS)
	v.SetDefault("CLIENT_BURST", defaultClientBurst)
	v.SetDefault("CACHE_PREFIX", defaultCachePrefix)
	v.SetDefault("CATEGORIES_TTL", defaultCategoriesTTL)
	v.SetDefault("METRICS_TTL", defaultMetricsTTL)
	v.SetDefault("EVENTS_QUEUE", defaultEventsQueue)
	v.SetDefault("TOKEN_TTL", defaultTokenTTL)

	cfg := Dashboard{
		Environment:       v.GetString("ENVIRONMENT"),
		HTTPAddr:          v.GetString("DASHBOARD_ADDR"),
		APIBaseURL:        v.GetString("API_BASE_URL"),
		RequestTimeout:    v.GetDuration("REQUEST_TIMEOUT"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),
		ReadHeaderTimeout: v.GetDuration("READ_HEADER_TIMEOUT"),
		GatewayRPS:        v.GetFloat64("GATEWAY_RPS"),
		GatewayBurst:      v.GetInt("GATEWAY_BURST"),
		MaxListBytes:      v.GetInt64("MAX_LIST_BYTES"),
		ClientRPS:         v.GetFloat64("CLIENT_RPS"),
		ClientBurst:       v.GetInt("CLIENT_BURST"),
		RedisURL:          v.GetString("REDIS_URL"),
		CachePrefix:       v.GetString("CACHE_PREFIX"),
		CategoriesTTL:     v.GetDuration("CATEGORIES_TTL"),
		MetricsTTL:        v.GetDuration("METRICS_TTL"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		EventsQueue:       v.GetString("EVENTS_QUEUE"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		AdminUser:         v.GetString("ADMIN_USER"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Dashboard{}, fmt.Errorf("API_BASE_URL must be an absolute URL")
	}
	if cfg.MaxListBytes <= 0 {
		return Dashboard{}, fmt.Errorf("MAX_LIST_BYTES must be positive")
	}
	if cfg.GatewayRPS < 0 || cfg.ClientRPS <= 0 {
		return Dashboard{}, fmt.Errorf("rate limits must be positive")
	}
	if cfg.AdminUser != "" && (cfg.AdminPasswordHash == "" || cfg.JWTSecret == "") {
		return Dashboard{}, fmt.Errorf("ADMIN_USER requires ADMIN_PASSWORD_HASH and JWT_SECRET")
	}

	return cfg, nil
}

func LoadAPI() (API, error) {
	v, err := newViper()
	if err != nil {
		return API{}, err
	}

	v.SetDefault("ENVIRONMENT", defaultEnvironment)
	v.SetDefault("API_ADDR", defaultAPIAddr)
	v.SetDefault("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	v.SetDefault("READ_HEADER_TIMEOUT", defaultReadHeaderLimit)
	v.SetDefault("SEED_DEMO_DATA", true)

	return API{
		Environment:       v.GetString("ENVIRONMENT"),
		HTTPAddr:          v.GetString("API_ADDR"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),
		ReadHeaderTimeout: v.GetDuration("READ_HEADER_TIMEOUT"),
		SeedDemoData:      v.GetBool("SEED_DEMO_DATA"),
	}, nil
}

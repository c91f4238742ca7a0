package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the server configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	JWT struct {
		AccessSecret  string
		RefreshSecret string
		AccessTTL     time.Duration
		RefreshTTL    time.Duration
	}
	CORS struct {
		// Origins are prefixes; an Origin header matching any of them is allowed.
		Origins []string
	}
	RateLimit struct {
		Requests int
		Window   time.Duration
	}
	Log LogConfig
	// StatsInterval is how often the row-count gauges are refreshed.
	StatsInterval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	APIURL   string
	DataPath string
	PageSize int
	Log      LogConfig
}

// DefaultCORSOrigins are the extension and local-development origins.
var DefaultCORSOrigins = []string{
	"chrome-extension://",
	"moz-extension://",
	"safari-web-extension://",
	"http://localhost",
}

// newViper reads environment (BYTEVAULT_ prefix) and optional bytevault.yaml.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("BYTEVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("bytevault")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	return v
}

// Load reads the server configuration.
func Load() (*Config, error) {
	v := newViper()
	v.SetDefault("http.addr", ":5252")
	v.SetDefault("jwt.access_ttl", "1h")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("cors.origins", strings.Join(DefaultCORSOrigins, ","))
	v.SetDefault("ratelimit.requests", 100)
	v.SetDefault("ratelimit.window", "15m")
	v.SetDefault("stats.interval", "1m")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.JWT.AccessSecret = v.GetString("jwt.access_secret")
	cfg.JWT.RefreshSecret = v.GetString("jwt.refresh_secret")
	cfg.CORS.Origins = splitList(v.GetString("cors.origins"))
	cfg.RateLimit.Requests = v.GetInt("ratelimit.requests")
	cfg.Log = LogConfig{Level: v.GetString("log.level"), Format: v.GetString("log.format")}

	var err error
	if cfg.JWT.AccessTTL, err = duration(v, "jwt.access_ttl"); err != nil {
		return nil, err
	}
	if cfg.JWT.RefreshTTL, err = duration(v, "jwt.refresh_ttl"); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Window, err = duration(v, "ratelimit.window"); err != nil {
		return nil, err
	}
	if cfg.StatsInterval, err = duration(v, "stats.interval"); err != nil {
		return nil, err
	}

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("BYTEVAULT_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("BYTEVAULT_DB_DSN is required")
	}
	if cfg.JWT.AccessSecret == "" {
		return nil, fmt.Errorf("BYTEVAULT_JWT_ACCESS_SECRET is required")
	}
	if cfg.JWT.RefreshSecret == "" {
		return nil, fmt.Errorf("BYTEVAULT_JWT_REFRESH_SECRET is required")
	}
	if cfg.RateLimit.Requests <= 0 {
		return nil, fmt.Errorf("BYTEVAULT_RATELIMIT_REQUESTS must be positive")
	}
	if cfg.StatsInterval <= 0 {
		return nil, fmt.Errorf("BYTEVAULT_STATS_INTERVAL must be positive")
	}

	return cfg, nil
}

// LoadClient reads the terminal client configuration.
func LoadClient() (*ClientConfig, error) {
	v := newViper()
	v.SetDefault("client.api_url", "http://localhost:5252/api")
	v.SetDefault("client.data_path", "bytevault.db")
	v.SetDefault("client.page_size", 10)

	cfg := &ClientConfig{
		APIURL:   strings.TrimRight(v.GetString("client.api_url"), "/"),
		DataPath: v.GetString("client.data_path"),
		PageSize: v.GetInt("client.page_size"),
		Log:      LogConfig{Level: v.GetString("log.level"), Format: v.GetString("log.format")},
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("BYTEVAULT_CLIENT_API_URL is required")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("BYTEVAULT_CLIENT_PAGE_SIZE must be positive")
	}
	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		env := "BYTEVAULT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

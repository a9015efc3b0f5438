package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dfryer1193/travelcatalog/shared/db/sqlite"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "CATALOG"

const (
	DefaultAPIURL    = "http://localhost:8080"
	DefaultCachePath = "./catalog-cache.db"
	DefaultPort      = 8080
	DefaultDBPath    = "./catalog-server.db"
)

// Client configures catalogctl: where the remote store lives and where the
// local cache is kept.
type Client struct {
	APIURL         string
	CachePath      string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// Server configures the reference remote store.
type Server struct {
	Port      int
	DBPath    string
	LogLevel  string
	LogFormat string
}

// New returns a viper instance reading CATALOG_* environment variables and
// an optional catalog.yaml. .env files are loaded into the environment
// first; variables already set win over them.
func New(configFile string) *viper.Viper {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	return v
}

// LoadClient reads the client settings. Flags bound to v take precedence.
// SQLITE_DB_PATH, when set, replaces the built-in cache_path default.
func LoadClient(v *viper.Viper) (*Client, error) {
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("cache_path", sqlite.DefaultPath(DefaultCachePath))
	v.SetDefault("request_timeout", time.Duration(0))

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	cfg := &Client{
		APIURL:         strings.TrimSpace(v.GetString("api_url")),
		CachePath:      strings.TrimSpace(v.GetString("cache_path")),
		RequestTimeout: v.GetDuration("request_timeout"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
	}

	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api_url %q", cfg.APIURL)
	}
	if cfg.CachePath == "" {
		return nil, fmt.Errorf("cache_path must not be empty")
	}
	if cfg.RequestTimeout < 0 {
		return nil, fmt.Errorf("request_timeout must not be negative")
	}

	return cfg, nil
}

// LoadServer reads the reference server settings. SQLITE_DB_PATH, when set,
// replaces the built-in db_path default.
func LoadServer(v *viper.Viper) (*Server, error) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("db_path", sqlite.DefaultPath(DefaultDBPath))

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	cfg := &Server{
		Port:      v.GetInt("port"),
		DBPath:    strings.TrimSpace(v.GetString("db_path")),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db_path must not be empty")
	}

	return cfg, nil
}

// readConfigFile tolerates a missing default config file but not a broken
// or explicitly named one.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config: %w", err)
}

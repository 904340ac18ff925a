package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar points at an optional YAML file layered between the
// defaults and the environment.
const ConfigPathEnvVar = "CONFIG_PATH"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	JWT       JWTConfig       `koanf:"jwt"`
	Redis     RedisConfig     `koanf:"redis"`
	Storage   R2Config        `koanf:"storage"`
	Google    GoogleOAuth     `koanf:"google"`
	Log       LogConfig       `koanf:"log"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required,numeric"`
	Mode            string        `koanf:"mode" validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host" validate:"required_without=URL"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required_without=URL"`
	SSLMode  string `koanf:"sslmode"`
}

// DSN returns URL when set, otherwise a libpq keyword string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type JWTConfig struct {
	Secret     string        `koanf:"secret" validate:"required,min=16"`
	AccessTTL  time.Duration `koanf:"access_ttl" validate:"gt=0"`
	RefreshTTL time.Duration `koanf:"refresh_ttl" validate:"gt=0"`
}

type RedisConfig struct {
	Addr       string        `koanf:"addr"` // empty disables view de-duplication
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db" validate:"min=0"`
	ViewWindow time.Duration `koanf:"view_window"`
}

type R2Config struct {
	AccountID       string        `koanf:"account_id"`
	AccessKeyID     string        `koanf:"access_key_id"`
	SecretAccessKey string        `koanf:"secret_access_key"`
	BucketName      string        `koanf:"bucket_name"`
	PublicURL       string        `koanf:"public_url"`
	Region          string        `koanf:"region"`
	PresignTTL      time.Duration `koanf:"presign_ttl"`
}

// Enabled reports whether uploads can be served.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.BucketName != ""
}

type GoogleOAuth struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"min=0"` // 0 disables
	Window   time.Duration `koanf:"window"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "arcade_map",
			SSLMode: "disable",
		},
		JWT: JWTConfig{
			AccessTTL:  24 * time.Hour,
			RefreshTTL: 30 * 24 * time.Hour,
		},
		Redis: RedisConfig{
			ViewWindow: 30 * time.Minute,
		},
		Storage: R2Config{
			Region:     "auto",
			PresignTTL: time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Requests: 120,
			Window:   time.Minute,
		},
	}
}

// envMappings keeps the variable names the deployment already uses.
var envMappings = map[string]string{
	"port":                         "server.port",
	"gin_mode":                     "server.mode",
	"shutdown_timeout":             "server.shutdown_timeout",
	"database_url":                 "database.url",
	"db_host":                      "database.host",
	"db_port":                      "database.port",
	"db_user":                      "database.user",
	"db_password":                  "database.password",
	"db_name":                      "database.name",
	"db_sslmode":                   "database.sslmode",
	"jwt_secret":                   "jwt.secret",
	"jwt_access_ttl":               "jwt.access_ttl",
	"jwt_refresh_ttl":              "jwt.refresh_ttl",
	"redis_addr":                   "redis.addr",
	"redis_pass":                   "redis.password",
	"redis_db":                     "redis.db",
	"view_dedup_window":            "redis.view_window",
	"cloudflare_account_id":        "storage.account_id",
	"cloudflare_access_key_id":     "storage.access_key_id",
	"cloudflare_secret_access_key": "storage.secret_access_key",
	"cloudflare_bucket_name":       "storage.bucket_name",
	"cloudflare_public_url":        "storage.public_url",
	"upload_presign_ttl":           "storage.presign_ttl",
	"google_client_id":             "google.client_id",
	"google_client_secret":         "google.client_secret",
	"google_redirect_url":          "google.redirect_url",
	"log_level":                    "log.level",
	"log_format":                   "log.format",
	"cors_origins":                 "cors.origins",
	"rate_limit_requests":          "rate_limit.requests",
	"rate_limit_window":            "rate_limit.window",
}

func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load layers defaults, an optional YAML file and the environment. A .env file
// in the working directory is read first when present.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for command-line tools that only need the database.
func LoadDatabase() (DatabaseConfig, error) {
	cfg, err := load()
	if err != nil {
		return DatabaseConfig{}, err
	}
	if err := validator.New().Struct(cfg.Database); err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid database configuration: %w", err)
	}
	return cfg.Database, nil
}

func load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	splitSliceFields(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// sliceConfigPaths are list settings that arrive from the environment as one
// comma-separated string.
var sliceConfigPaths = []string{"cors.origins"}

func splitSliceFields(k *koanf.Koanf) {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := make([]string, 0, strings.Count(raw, ",")+1)
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		_ = k.Set(path, parts)
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

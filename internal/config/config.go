package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Catalog struct {
		Backend     string `yaml:"backend"` // file, postgres or memory
		Path        string `yaml:"path"`
		OnMalformed string `yaml:"on_malformed"` // abort or skip
	} `yaml:"catalog"`
	Admin struct {
		Secret     string `yaml:"secret"`
		SecretHash string `yaml:"secret_hash"`
	} `yaml:"admin"`
	Redis struct {
		Addr           string `yaml:"addr"`
		Password       string `yaml:"password"`
		DB             int    `yaml:"db"`
		TTL            string `yaml:"ttl"`
		LeaderboardKey string `yaml:"leaderboard_key"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Catalog.Backend = "file"
	cfg.Catalog.Path = "problems.txt"
	cfg.Catalog.OnMalformed = "abort"
	cfg.Admin.Secret = "admin123"
	cfg.Redis.TTL = "10m"
	cfg.Redis.LeaderboardKey = "judge:leaderboard"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Load reads YAML config from path on top of the defaults, then applies .env and
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	_ = godotenv.Load()
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Catalog.Backend = getEnv("JUDGE_CATALOG_BACKEND", cfg.Catalog.Backend)
	cfg.Catalog.Path = getEnv("JUDGE_CATALOG_PATH", cfg.Catalog.Path)
	cfg.Catalog.OnMalformed = getEnv("JUDGE_CATALOG_ON_MALFORMED", cfg.Catalog.OnMalformed)
	cfg.Admin.Secret = getEnv("JUDGE_ADMIN_SECRET", cfg.Admin.Secret)
	cfg.Admin.SecretHash = getEnv("JUDGE_ADMIN_SECRET_HASH", cfg.Admin.SecretHash)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Postgres.URL = getEnv("POSTGRES_URL", cfg.Postgres.URL)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

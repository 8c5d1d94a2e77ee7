package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerAddr string `yaml:"server_addr"`
	GRPCAddr   string `yaml:"grpc_addr"`
	LogLevel   string `yaml:"log_level"`

	DatabaseDSN string `yaml:"database_dsn"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	ReplyURL          string        `yaml:"reply_url"`
	ReplyModel        string        `yaml:"reply_model"`
	ReplyTimeout      time.Duration `yaml:"reply_timeout"`
	ReplyTokenURL     string        `yaml:"reply_token_url"`
	ReplyClientID     string        `yaml:"reply_client_id"`
	ReplyClientSecret string        `yaml:"reply_client_secret"`

	// FeedbackURL points widgets at a remote feedback endpoint. Empty means in-process.
	FeedbackURL string `yaml:"feedback_url"`

	HistoryTurns      int           `yaml:"history_turns"`
	HistoryChars      int           `yaml:"history_chars"`
	PermissionTimeout time.Duration `yaml:"permission_timeout"`
	HealthInterval    time.Duration `yaml:"health_interval"`
	AllowedOrigins    []string      `yaml:"allowed_origins"`

	StaticDir string `yaml:"static_dir"`
	IndexHTML string `yaml:"index_html"`
}

func DefaultConfig() *Config {
	return &Config{
		ServerAddr: ":8080",
		GRPCAddr:   ":50051",
		LogLevel:   "info",

		RedisAddr: "localhost:6379",

		ReplyURL:     "http://localhost:11434",
		ReplyModel:   "llama3.2",
		ReplyTimeout: 30 * time.Second,

		HistoryTurns:      10,
		HistoryChars:      500,
		PermissionTimeout: 5 * time.Second,
		HealthInterval:    15 * time.Second,

		StaticDir: "./static",
		IndexHTML: "./static/index.html",
	}
}

// LoadConfig reads the optional CONFIG_FILE and then applies environment overrides.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ServerAddr = getEnv("SERVER_ADDR", cfg.ServerAddr)
	cfg.GRPCAddr = getEnv("GRPC_ADDR", cfg.GRPCAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)

	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)

	cfg.ReplyURL = getEnv("REPLY_URL", cfg.ReplyURL)
	cfg.ReplyModel = getEnv("REPLY_MODEL", cfg.ReplyModel)
	cfg.ReplyTimeout = getEnvDuration("REPLY_TIMEOUT", cfg.ReplyTimeout)
	cfg.ReplyTokenURL = getEnv("REPLY_TOKEN_URL", cfg.ReplyTokenURL)
	cfg.ReplyClientID = getEnv("REPLY_CLIENT_ID", cfg.ReplyClientID)
	cfg.ReplyClientSecret = getEnv("REPLY_CLIENT_SECRET", cfg.ReplyClientSecret)

	cfg.FeedbackURL = getEnv("FEEDBACK_URL", cfg.FeedbackURL)

	cfg.HistoryTurns = getEnvInt("HISTORY_TURNS", cfg.HistoryTurns)
	cfg.HistoryChars = getEnvInt("HISTORY_CHARS", cfg.HistoryChars)
	cfg.PermissionTimeout = getEnvDuration("PERMISSION_TIMEOUT", cfg.PermissionTimeout)
	cfg.HealthInterval = getEnvDuration("HEALTH_INTERVAL", cfg.HealthInterval)
	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.IndexHTML = getEnv("INDEX_HTML", cfg.IndexHTML)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	ServerPort      string
	StoreBackend    string // badger, dynamo, or memory
	DataDir         string
	DownloadsDir    string
	CatalogPath     string
	DynamoEndpoint  string
	DynamoTableName string
	AWSRegion       string
	JWTSecret       string
	JWTIssuer       string
	CORSAllowOrigin string
	LogLevel        slog.Level
	DevBypassAuth   bool
}

func LoadConfig() (Config, error) {
	cfg := Config{
		ServerPort:      envOrDefault("SERVER_PORT", "8080"),
		StoreBackend:    envOrDefault("STORE_BACKEND", "badger"),
		DataDir:         envOrDefault("DATA_DIR", "./data"),
		DownloadsDir:    envOrDefault("DOWNLOADS_DIR", "./downloads"),
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		DynamoEndpoint:  os.Getenv("DYNAMODB_ENDPOINT"),
		DynamoTableName: envOrDefault("DYNAMODB_TABLE_NAME", "lesson-store"),
		AWSRegion:       envOrDefault("AWS_REGION", "us-east-1"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       os.Getenv("JWT_ISSUER"),
		CORSAllowOrigin: envOrDefault("CORS_ALLOW_ORIGIN", "*"),
		LogLevel:        parseLogLevel(os.Getenv("LOG_LEVEL")),
		DevBypassAuth:   strings.EqualFold(os.Getenv("DEV_BYPASS_AUTH"), "true"),
	}

	switch cfg.StoreBackend {
	case "badger", "dynamo", "memory":
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.JWTSecret == "" && !cfg.DevBypassAuth {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is required unless DEV_BYPASS_AUTH=true")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

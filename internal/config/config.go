package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// APIConfig holds configuration for the image listing API
type APIConfig struct {
	Addr           string
	AssetDir       string
	IncomingDir    string
	IngestSchedule string
	CacheTTL       time.Duration
	DatabaseURL    string
	Redis          RedisConfig
	Vision         VisionConfig
	Log            LogConfig
}

// RedisConfig holds Redis connection settings. URL wins over the other fields when set.
type RedisConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

// VisionConfig holds the OpenAI-compatible endpoint used to summarise ingested images.
// Summarisation is off unless both BaseURL and Model are set.
type VisionConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Enabled reports whether image summarisation is configured
func (v VisionConfig) Enabled() bool {
	return v.BaseURL != "" && v.Model != ""
}

// GalleryConfig holds configuration for the gallery host page
type GalleryConfig struct {
	Addr         string
	APIBaseURL   string
	AssetBaseURL string
	FetchOnStart bool
	Title        string
	Log          LogConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// loadDotEnv loads a .env file if one exists; system environment variables win.
// A missing file is fine, a malformed one is not.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// LoadAPI loads the API configuration from environment variables
func LoadAPI() (*APIConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &APIConfig{
		Addr:           getEnvOrDefault("API_ADDR", ":9091"),
		AssetDir:       getEnvOrDefault("ASSET_DIR", "./data/assets"),
		IncomingDir:    getEnvOrDefault("INCOMING_DIR", "./data/incoming"),
		IngestSchedule: getEnvOrDefault("INGEST_SCHEDULE", "@every 1m"),
		DatabaseURL:    databaseURL(),
		Log:            loadLogConfig(),
	}

	ttl, err := strconv.Atoi(getEnvOrDefault("IMAGES_CACHE_TTL_SECONDS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGES_CACHE_TTL_SECONDS value: %w", err)
	}
	cfg.CacheTTL = time.Duration(ttl) * time.Second

	if cfg.Redis, err = loadRedisConfig(); err != nil {
		return nil, err
	}
	if cfg.Vision, err = loadVisionConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// databaseURL returns DATABASE_URL, or a URL assembled from the POSTGRES_* variables
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnvOrDefault("POSTGRES_USER", "postgres"),
		os.Getenv("POSTGRES_PASSWORD"),
		getEnvOrDefault("POSTGRES_HOST", "localhost"),
		getEnvOrDefault("POSTGRES_PORT", "5432"),
		getEnvOrDefault("POSTGRES_DB", "imagealbum"),
		getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	)
}

func loadRedisConfig() (RedisConfig, error) {
	db, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}
	return RedisConfig{
		URL:      os.Getenv("REDIS_URL"),
		Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
		Port:     getEnvOrDefault("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func loadVisionConfig() (VisionConfig, error) {
	timeout, err := strconv.Atoi(getEnvOrDefault("VISION_TIMEOUT_SECONDS", "60"))
	if err != nil {
		return VisionConfig{}, fmt.Errorf("invalid VISION_TIMEOUT_SECONDS value: %w", err)
	}
	return VisionConfig{
		BaseURL: os.Getenv("VISION_API_BASE_URL"),
		APIKey:  os.Getenv("VISION_API_KEY"),
		Model:   os.Getenv("VISION_MODEL"),
		Timeout: time.Duration(timeout) * time.Second,
	}, nil
}

// LoadGallery loads the gallery host configuration from environment variables
func LoadGallery() (*GalleryConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &GalleryConfig{
		Addr:         getEnvOrDefault("GALLERY_ADDR", ":9092"),
		APIBaseURL:   os.Getenv("GALLERY_API_BASE_URL"),
		AssetBaseURL: os.Getenv("GALLERY_ASSET_BASE_URL"),
		Title:        getEnvOrDefault("GALLERY_TITLE", "Image Album"),
		Log:          loadLogConfig(),
	}

	fetchOnStart, err := strconv.ParseBool(getEnvOrDefault("GALLERY_FETCH_ON_START", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid GALLERY_FETCH_ON_START value: %w", err)
	}
	cfg.FetchOnStart = fetchOnStart

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("GALLERY_API_BASE_URL is required")
	}
	if cfg.AssetBaseURL == "" {
		return nil, fmt.Errorf("GALLERY_ASSET_BASE_URL is required")
	}

	return cfg, nil
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
	}
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

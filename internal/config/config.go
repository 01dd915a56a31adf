package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr        string
	DatabaseURL string

	DetectorURL  string
	VendorURL    string
	GeneratorURL string

	VendorCacheTTL time.Duration
	VendorCacheMax int

	TightMargin float64

	StorageDir string
	S3Bucket   string
	S3Prefix   string

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string
}

const (
	defaultAddr       = ":8070"
	defaultStorageDir = "storage/uploads"
	defaultCacheTTL   = 15 * time.Minute
	defaultKafkaTopic = "designer.requests"
)

func Load() (Config, error) {
	cfg := Config{
		Addr:           getEnv("DESIGNER_ADDR", defaultAddr),
		DatabaseURL:    firstNonEmpty(os.Getenv("DESIGNER_DATABASE_URL"), os.Getenv("DATABASE_URL")),
		DetectorURL:    os.Getenv("DESIGNER_DETECTOR_URL"),
		VendorURL:      os.Getenv("DESIGNER_VENDOR_URL"),
		GeneratorURL:   os.Getenv("DESIGNER_GENERATOR_URL"),
		VendorCacheTTL: getDuration("DESIGNER_VENDOR_CACHE_TTL", defaultCacheTTL),
		VendorCacheMax: getInt("DESIGNER_VENDOR_CACHE_MAX", 0),
		TightMargin:    getFloat("DESIGNER_TIGHT_MARGIN", 0.10),
		StorageDir:     getEnv("DESIGNER_STORAGE_DIR", defaultStorageDir),
		S3Bucket:       os.Getenv("DESIGNER_S3_BUCKET"),
		S3Prefix:       os.Getenv("DESIGNER_S3_PREFIX"),
		KafkaBrokers:   splitList(os.Getenv("DESIGNER_KAFKA_BROKERS")),
		KafkaTopic:     getEnv("DESIGNER_KAFKA_TOPIC", defaultKafkaTopic),
		JWTSecret:      os.Getenv("DESIGNER_JWT_SECRET"),
	}
	if cfg.DetectorURL == "" {
		return Config{}, fmt.Errorf("DESIGNER_DETECTOR_URL required")
	}
	if cfg.VendorURL == "" {
		return Config{}, fmt.Errorf("DESIGNER_VENDOR_URL required")
	}
	if cfg.VendorCacheTTL <= 0 {
		return Config{}, fmt.Errorf("DESIGNER_VENDOR_CACHE_TTL must be positive")
	}
	if cfg.TightMargin < 0 {
		return Config{}, fmt.Errorf("DESIGNER_TIGHT_MARGIN must be non-negative")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

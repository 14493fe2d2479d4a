package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Padrões de uma execução do feed; flags da CLI e o formulário de export sobrescrevem.
	Domain             string
	MinQuantity        int
	ActiveOnly         bool
	IncludeDescription bool
	Currency           string
	SkipInvalidRows    bool

	HTTPAddr    string
	MetricsPort string
	DatabaseURL string
	RedisURL    string
	UploadTTL   time.Duration
	MaxUploadMB int64
	LogLevel    string
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return &Config{
		Domain:             getEnv("FEED_DOMAIN", "https://exampledomain.com"),
		MinQuantity:        getInt("FEED_MIN_QUANTITY", 10),
		ActiveOnly:         getBool("FEED_ACTIVE_ONLY", true),
		IncludeDescription: getBool("FEED_INCLUDE_DESCRIPTION", true),
		Currency:           strings.ToUpper(getEnv("FEED_CURRENCY", "NZD")),
		SkipInvalidRows:    getBool("FEED_SKIP_INVALID_ROWS", false),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		MetricsPort:        getEnv("METRICS_PORT", "9090"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		UploadTTL:          getDuration("UPLOAD_TTL", 30*time.Minute),
		MaxUploadMB:        int64(getInt("MAX_UPLOAD_MB", 32)),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return d
	}
	return v
}

func getBool(k string, d bool) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return d
	}
	return v
}

func getDuration(k string, d time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return d
	}
	return v
}

// Package config はアプリケーション全体の設定を環境変数から読み込みます。
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config はHTTPサーバーと周辺機能の設定を保持します。
// DB・Redisの接続設定はそれぞれのパッケージで読み込みます。
type Config struct {
	// Server
	Port        string
	GinMode     string
	CORSOrigins []string

	// Observability
	LogLevel  slog.Level
	SentryDSN string
	AppEnv    string

	// Users
	UserCacheTTL time.Duration
	BcryptCost   int
}

// LoadDotEnv は.envを読み込みます。存在しない場合はシステム環境変数のみを使用します。
func LoadDotEnv() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
}

// Load は環境変数から設定を読み込みます。
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "release"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "")),

		LogLevel:  parseLevel(getEnv("LOG_LEVEL", "info")),
		SentryDSN: getEnv("SENTRY_DSN", ""),
		AppEnv:    getEnv("APP_ENV", "development"),

		UserCacheTTL: parseDuration(getEnv("USER_CACHE_TTL", "5m"), 5*time.Minute),
		BcryptCost:   parseInt(getEnv("BCRYPT_COST", ""), bcrypt.DefaultCost),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// parseLevel は "debug" / "info" / "warn" / "error" をslog.Levelに変換します。不明な値はinfo。
func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
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

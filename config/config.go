// Package config assembles module settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/influencer-planner/modules/account"
	"github.com/example/influencer-planner/modules/storage"
	"github.com/example/influencer-planner/modules/web"
)

// Config holds the settings of every module.
type Config struct {
	Storage storage.Config
	Account account.Config
	Web     web.Config
	// RedisAddr enables the cache plugin when set.
	RedisAddr   string
	CachePrefix string
}

// Load reads the optional env files (".env" when none are given) and then the
// process environment. Variables already set in the environment win over the
// files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	loc := time.Local
	if tz := getEnv("TZ", ""); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TZ %q: %w", tz, err)
		}
		loc = l
	}

	sessionSecret := getEnv("SESSION_SECRET", "")

	jwt := account.DefaultJWTConfig()
	if sessionSecret != "" {
		jwt.SecretKey = sessionSecret
	}
	jwt.SecretKey = getEnv("JWT_SECRET_KEY", jwt.SecretKey)
	jwt.Issuer = getEnv("JWT_ISSUER", jwt.Issuer)
	jwt.AccessTokenDuration = getEnvDuration("JWT_ACCESS_TTL", jwt.AccessTokenDuration)
	jwt.RefreshTokenDuration = getEnvDuration("JWT_REFRESH_TTL", jwt.RefreshTokenDuration)

	w := web.DefaultConfig()
	w.Port = getEnvInt("PORT", w.Port)
	w.SessionSecret = sessionSecret
	w.SessionTTL = getEnvDuration("SESSION_TTL", w.SessionTTL)
	w.CookieSecure = getEnvBool("COOKIE_SECURE", false)
	w.CORSOrigins = getEnv("CORS_ALLOWED_ORIGINS", "")
	w.LoginMax = getEnvInt("LOGIN_MAX_ATTEMPTS", w.LoginMax)
	w.LoginWindow = getEnvDuration("LOGIN_WINDOW", w.LoginWindow)
	w.Location = loc

	return Config{
		Storage: storage.Config{
			MongoURI:      getEnv("MONGODB_URI", ""),
			MongoDatabase: getEnv("MONGODB_DATABASE", "influencer_planner"),
			SQLitePath:    getEnv("DB_PATH", "planner.db"),
		},
		Account: account.Config{
			JWT: jwt,
			Seed: account.SeedConfig{
				AdminPassword:   getEnv("SEED_ADMIN_PASSWORD", ""),
				CreatorPassword: getEnv("SEED_CREATOR_PASSWORD", ""),
			},
			BcryptCost: getEnvInt("BCRYPT_COST", 0),
		},
		Web:         w,
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		CachePrefix: getEnv("CACHE_PREFIX", "planner:"),
	}, nil
}

// Warnings lists settings that are unsafe outside local development.
func (c Config) Warnings() []string {
	var out []string
	if c.Account.JWT.SecretKey == account.DefaultJWTConfig().SecretKey {
		out = append(out, "JWT_SECRET_KEY is not set, using the development secret")
	}
	if c.Web.SessionSecret == "" {
		out = append(out, "SESSION_SECRET is not set, session cookies are not encrypted")
	}
	return out
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

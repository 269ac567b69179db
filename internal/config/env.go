package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "super-secret-key-change-me"

var ErrJWTSecretUnset = errors.New("JWT_SECRET must be set when APP_ENV=prod")

type Env struct {
	AppEnv   string
	AppAddr  string
	GinMode  string
	LogLevel string

	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBBootstrap bool

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string
	AuthRatePerMinute  int
	AuthRateBurst      int
}

// LoadEnv reads configuration from the process environment. A .env file in
// the working directory (or the path in ENV_FILE) is loaded first when
// present; variables already set win.
func LoadEnv() Env {
	if path := strings.TrimSpace(os.Getenv("ENV_FILE")); path != "" {
		_ = godotenv.Load(path)
	} else {
		_ = godotenv.Load()
	}

	return Env{
		AppEnv:   getString("APP_ENV", "local"),
		AppAddr:  getString("APP_ADDR", ":8080"),
		GinMode:  getString("GIN_MODE", ""),
		LogLevel: getString("LOG_LEVEL", ""),

		DBHost:      getString("DB_HOST", "127.0.0.1"),
		DBPort:      getInt("DB_PORT", 3306),
		DBUser:      getString("DB_USER", "root"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getString("DB_NAME", "meal_ordering"),
		DBBootstrap: getBool("DB_BOOTSTRAP", false),

		JWTSecret: getString("JWT_SECRET", defaultJWTSecret),
		JWTTTL:    time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour,

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}),
		AuthRatePerMinute: getInt("AUTH_RATE_PER_MINUTE", 30),
		AuthRateBurst:     getInt("AUTH_RATE_BURST", 15),
	}
}

// Validate refuses settings that are only safe for local development.
func (e Env) Validate() error {
	if e.AppEnv == "prod" && (e.JWTSecret == "" || e.JWTSecret == defaultJWTSecret) {
		return ErrJWTSecretUnset
	}
	return nil
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

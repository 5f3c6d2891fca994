package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrorBehaviorEnv toggles the simulated 429/500 outcomes.
const ErrorBehaviorEnv = "MOCK_ERROR_BEHAVIOR"

// ErrorBehavior reports whether simulated failures are reachable. Handlers call it
// once per request and pass the result down to the decision functions.
type ErrorBehavior func() bool

// EnvErrorBehavior reads MOCK_ERROR_BEHAVIOR on every call, so changes to the
// environment take effect on the next request.
func EnvErrorBehavior() bool {
	return ParseErrorBehavior(os.Getenv(ErrorBehaviorEnv))
}

// StaticErrorBehavior returns a switch fixed to enabled.
func StaticErrorBehavior(enabled bool) ErrorBehavior {
	return func() bool { return enabled }
}

// ParseErrorBehavior maps "enabled"/"disabled" (any case) to a bool.
// Unset or unrecognized values keep error behavior enabled.
func ParseErrorBehavior(value string) bool {
	return !strings.EqualFold(value, "disabled")
}

type AppConfig struct {
	ServerPort     string
	RateLimit      float64 // Requests per second per client IP, 0 disables the limiter
	BurstLimit     int     // Burst requests allowed
	AllowedOrigins []string
	LogLevel       slog.Level
	LogFormat      string // "text" or "json"
	ErrorBehavior  ErrorBehavior
}

// Load reads envFile if it exists and builds the configuration from the environment.
func Load(envFile string) *AppConfig {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Debug("env file not loaded, using system environment", "file", envFile, "error", err)
		}
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8000"
	}

	rateLimit, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT"), 64)
	if err != nil || rateLimit < 0 {
		rateLimit = 0
	}

	burstLimit, err := strconv.Atoi(os.Getenv("BURST_LIMIT"))
	if err != nil || burstLimit <= 0 {
		burstLimit = 5
	}

	origins := []string{"*"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = splitList(raw)
	}

	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat != "json" {
		logFormat = "text"
	}

	return &AppConfig{
		ServerPort:     serverPort,
		RateLimit:      rateLimit,
		BurstLimit:     burstLimit,
		AllowedOrigins: origins,
		LogLevel:       parseLevel(os.Getenv("LOG_LEVEL")),
		LogFormat:      logFormat,
		ErrorBehavior:  EnvErrorBehavior,
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

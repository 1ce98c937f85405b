package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Drivers de backend soportados.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port string

	Backend   BackendConfig
	Assistant AssistantConfig
	Auth      AuthConfig
	Log       LogConfig
}

type BackendConfig struct {
	Driver  string
	URL     string
	AnonKey string
	DSN     string // solo driver=postgres
	Seed    bool   // solo driver=memory
	Timeout time.Duration
}

type AssistantConfig struct {
	APIKey string
	Model  string
}

// AuthConfig aplica al proveedor local (driver postgres/memory).
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	App    string
}

// Load lee config de (en orden de prioridad) flags, env y archivo opcional.
// Nada es obligatorio: lo que falta degrada features, no corta el arranque.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("backend.driver", DriverSupabase)
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("assistant.model", "gemini-3-flash-preview")
	v.SetDefault("auth.session_ttl", "1h")
	v.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.app", "vetclinic-dashboard")

	binds := map[string][]string{
		"port":               {"PORT"},
		"backend.driver":     {"BACKEND_DRIVER"},
		"backend.url":        {"SUPABASE_URL", "VITE_SUPABASE_URL"},
		"backend.anon_key":   {"SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"},
		"backend.dsn":        {"DB_DSN"},
		"backend.seed":       {"BACKEND_SEED"},
		"backend.timeout":    {"BACKEND_TIMEOUT"},
		"assistant.api_key": {"GEMINI_API_KEY", "API_KEY"},
		"assistant.model":    {"GEMINI_MODEL"},
		"auth.jwt_secret":    {"AUTH_JWT_SECRET"},
		"auth.session_ttl":   {"AUTH_SESSION_TTL"},
		"log.level":          {"LOG_LEVEL"},
		"log.format":         {"LOG_FORMAT"},
		"log.app":            {"APP_NAME"},
	}
	for key, envs := range binds {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("config: bind env %s: %w", key, err)
		}
	}

	if flags != nil {
		for key, name := range map[string]string{
			"port":           "port",
			"backend.driver": "backend",
			"backend.seed":   "seed",
			"log.level":      "log-level",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	cfg := Config{
		Port: strings.TrimSpace(v.GetString("port")),
		Backend: BackendConfig{
			Driver:  strings.ToLower(strings.TrimSpace(v.GetString("backend.driver"))),
			URL:     strings.TrimSpace(v.GetString("backend.url")),
			AnonKey: strings.TrimSpace(v.GetString("backend.anon_key")),
			DSN:     strings.TrimSpace(v.GetString("backend.dsn")),
			Seed:    v.GetBool("backend.seed"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Assistant: AssistantConfig{
			APIKey: strings.TrimSpace(v.GetString("assistant.api_key")),
			Model:  strings.TrimSpace(v.GetString("assistant.model")),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("auth.jwt_secret"),
			SessionTTL: v.GetDuration("auth.session_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			App:    v.GetString("log.app"),
		},
	}

	switch cfg.Backend.Driver {
	case DriverSupabase, DriverPostgres, DriverMemory:
	default:
		return Config{}, fmt.Errorf("config: unknown backend driver %q", cfg.Backend.Driver)
	}

	return cfg, nil
}

// BackendConfigured indica si hay credenciales para el backend hospedado.
func (c Config) BackendConfigured() bool {
	return c.Backend.URL != "" && c.Backend.AnonKey != ""
}

// AssistantEnabled indica si hay API key para el asistente.
func (c Config) AssistantEnabled() bool {
	return c.Assistant.APIKey != ""
}

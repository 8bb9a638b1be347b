package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported store backends.
const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"
)

// Supported completion providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ErrMissingConfig indicates one or more required environment values are absent.
var ErrMissingConfig = errors.New("missing required configuration")

// Config holds runtime configuration values for the grader service.
type Config struct {
	AppName       string
	AppEnv        string
	AppPort       string
	LogLevel      string
	StoreBackend  string
	SupabaseURL   string
	SupabaseKey   string
	DatabaseURL   string
	AIProvider    string
	GraderModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
	StrictSchema  bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	bindings := map[string]string{
		"app.name":                  "APP_NAME",
		"app.env":                   "APP_ENV",
		"app.port":                  "PORT",
		"log.level":                 "LOG_LEVEL",
		"store.backend":             "STORE_BACKEND",
		"supabase.url":              "SUPABASE_URL",
		"supabase.anon_key":         "SUPABASE_ANON_KEY",
		"supabase.service_role_key": "SUPABASE_SERVICE_ROLE_KEY",
		"database.url":              "DATABASE_URL",
		"ai.provider":               "AI_PROVIDER",
		"grader.model":              "GRADER_MODEL",
		"grader.strict_schema":      "GRADER_STRICT_SCHEMA",
		"openai.api_key":            "OPENAI_API_KEY",
		"openai.base_url":           "OPENAI_BASE_URL",
		"gemini.api_key":            "GEMINI_API_KEY",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetDefault("app.name", "CRFPA grader minimal")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "10000")
	v.SetDefault("log.level", "info")
	v.SetDefault("store.backend", StoreSupabase)
	v.SetDefault("ai.provider", ProviderOpenAI)
	v.SetDefault("grader.strict_schema", false)

	cfg := Config{
		AppName:       v.GetString("app.name"),
		AppEnv:        v.GetString("app.env"),
		AppPort:       strings.TrimSpace(v.GetString("app.port")),
		LogLevel:      strings.ToLower(v.GetString("log.level")),
		StoreBackend:  strings.ToLower(strings.TrimSpace(v.GetString("store.backend"))),
		SupabaseURL:   strings.TrimSpace(v.GetString("supabase.url")),
		SupabaseKey:   strings.TrimSpace(v.GetString("supabase.anon_key")),
		DatabaseURL:   strings.TrimSpace(v.GetString("database.url")),
		AIProvider:    strings.ToLower(strings.TrimSpace(v.GetString("ai.provider"))),
		GraderModel:   strings.TrimSpace(v.GetString("grader.model")),
		OpenAIAPIKey:  strings.TrimSpace(v.GetString("openai.api_key")),
		OpenAIBaseURL: strings.TrimSpace(v.GetString("openai.base_url")),
		GeminiAPIKey:  strings.TrimSpace(v.GetString("gemini.api_key")),
		StrictSchema:  v.GetBool("grader.strict_schema"),
	}

	if cfg.SupabaseKey == "" {
		cfg.SupabaseKey = strings.TrimSpace(v.GetString("supabase.service_role_key"))
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "10000"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.GraderModel == "" {
		cfg.GraderModel = defaultModel(cfg.AIProvider)
	}

	return cfg, nil
}

func (c Config) validate() error {
	var missing []string

	switch c.StoreBackend {
	case StoreSupabase:
		if c.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.SupabaseKey == "" {
			missing = append(missing, "SUPABASE_ANON_KEY (or SUPABASE_SERVICE_ROLE_KEY)")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		return fmt.Errorf("unsupported store backend %q", c.StoreBackend)
	}

	switch c.AIProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unsupported ai provider %q", c.AIProvider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	return nil
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.5-flash"
	}
	return "gpt-4o-mini"
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSessionSecret = "dev-session-secret"

var ErrInsecureSessionSecret = errors.New("SESSION_SECRET must be set in production")

// defaultCourseOutcomes is sent with every upload so the generator can tag
// questions with a course outcome.
const defaultCourseOutcomes = `{"CO1":"Understand the fundamental concepts of the course","CO2":"Apply the concepts to solve problems","CO3":"Analyse problems and identify suitable methods","CO4":"Evaluate solutions and justify design decisions","CO5":"Create solutions for new scenarios"}`

type Config struct {
	Env      string   `mapstructure:"env"`
	Port     string   `mapstructure:"port"`
	Backend  Backend  `mapstructure:"backend"`
	Session  Session  `mapstructure:"session"`
	Database Database `mapstructure:"database"`
	Exam     Exam     `mapstructure:"exam"`
	CORS     CORS     `mapstructure:"cors"`
	Staff    Staff    `mapstructure:"staff"`
}

// Backend points at the quiz generator API.
type Backend struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Session struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
	MaxAge     time.Duration `mapstructure:"max_age"`
}

// Database is optional; an empty URL disables the integrity audit log.
type Database struct {
	URL string `mapstructure:"url"`
}

type Exam struct {
	AttemptTTL    time.Duration `mapstructure:"attempt_ttl"`
	SweepSchedule string        `mapstructure:"sweep_schedule"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Staff struct {
	CourseOutcomes string `mapstructure:"course_outcomes"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if present), config/config.yaml (if present) and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("session.secret", defaultSessionSecret)
	v.SetDefault("session.cookie_name", "quiz_session")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.max_age", "24h")
	v.SetDefault("database.url", "")
	v.SetDefault("exam.attempt_ttl", "3h")
	v.SetDefault("exam.sweep_schedule", "@every 5m")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:8080"})
	v.SetDefault("staff.course_outcomes", defaultCourseOutcomes)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("database.url", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Origins may come from the environment as one comma separated string.
	cfg.CORS.AllowedOrigins = splitList(strings.Join(cfg.CORS.AllowedOrigins, ","))
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")

	if cfg.IsProduction() && cfg.Session.Secret == defaultSessionSecret {
		return nil, ErrInsecureSessionSecret
	}

	return &cfg, nil
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

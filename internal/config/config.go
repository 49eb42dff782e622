// internal/config/config.go
//
// Runtime configuration.
//
// Sources, later ones winning:
//  1. built-in defaults;
//  2. an optional YAML file (path given by --config);
//  3. environment variables, including a .env file in the working directory
//     loaded through godotenv.
//
// Environment variables:
//   PORT, LOG_LEVEL, CLIENT_ORIGIN, JWT_SECRET, SESSION_DAYS, SESSION_IDLE,
//   WORDS_ANSWERS_FILE, WORDS_ALLOWED_FILE, WORDS_URL, WORDS_TIMEOUT,
//   DAILY_SALT, SCORING

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the server and the terminal game.
type Config struct {
	Port         string `yaml:"port"`
	LogLevel     string `yaml:"log_level"`
	ClientOrigin string `yaml:"client_origin"`

	JWTSecret   string        `yaml:"jwt_secret"`
	SessionDays int           `yaml:"session_days"`
	SessionIdle time.Duration `yaml:"session_idle"` // untouched game sessions are dropped after this

	Words   WordsConfig `yaml:"words"`
	Scoring string      `yaml:"scoring"` // "classic" | "standard"

	DailySalt string `yaml:"daily_salt"`
}

// WordsConfig selects the word source. URL wins over the file paths; with
// neither set the embedded lists are used.
type WordsConfig struct {
	AnswersFile string        `yaml:"answers_file"`
	AllowedFile string        `yaml:"allowed_file"`
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:         "5175",
		LogLevel:     "info",
		ClientOrigin: "http://localhost:5173",
		JWTSecret:    "dev_secret_change_me",
		SessionDays:  180,
		SessionIdle:  2 * time.Hour,
		Words:        WordsConfig{Timeout: 5 * time.Second},
		Scoring:      "classic",
		DailySalt:    "local_dev_salt",
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// non-empty) and the environment.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.ClientOrigin = getEnv("CLIENT_ORIGIN", c.ClientOrigin)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.Words.AnswersFile = getEnv("WORDS_ANSWERS_FILE", c.Words.AnswersFile)
	c.Words.AllowedFile = getEnv("WORDS_ALLOWED_FILE", c.Words.AllowedFile)
	c.Words.URL = getEnv("WORDS_URL", c.Words.URL)
	c.DailySalt = getEnv("DAILY_SALT", c.DailySalt)
	c.Scoring = getEnv("SCORING", c.Scoring)

	if v := os.Getenv("SESSION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SESSION_DAYS: %w", err)
		}
		c.SessionDays = n
	}
	if v := os.Getenv("SESSION_IDLE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_IDLE: %w", err)
		}
		c.SessionIdle = d
	}
	if v := os.Getenv("WORDS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WORDS_TIMEOUT: %w", err)
		}
		c.Words.Timeout = d
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must be set"))
	}
	if c.Scoring != "classic" && c.Scoring != "standard" {
		errs = append(errs, fmt.Errorf("scoring must be classic or standard, got %q", c.Scoring))
	}
	if c.SessionDays <= 0 {
		errs = append(errs, errors.New("session_days must be positive"))
	}
	if c.SessionIdle <= 0 {
		errs = append(errs, errors.New("session_idle must be positive"))
	}
	if c.Words.Timeout <= 0 {
		errs = append(errs, errors.New("words.timeout must be positive"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret must be set"))
	}
	return errors.Join(errs...)
}

// SessionTTL is the lifetime of a player session cookie.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionDays) * 24 * time.Hour
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port    string `yaml:"port"`
		// QuizDir is the only directory `serve` reads quiz files from.
		QuizDir string `yaml:"quiz_dir"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL             string `yaml:"ttl"`
		Delimiter       string `yaml:"delimiter"`
		CommentMarker   string `yaml:"comment_marker"`
		CorrectMarker   string `yaml:"correct_marker"`
		AnswerSeparator string `yaml:"answer_separator"`
		MaxAnswers      int    `yaml:"max_answers"`
	} `yaml:"quiz"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	UI struct {
		NoColor bool `yaml:"no_color"`
	} `yaml:"ui"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.QuizDir = "quizzes"
	cfg.Quiz.Delimiter = ","
	cfg.Quiz.CommentMarker = "#"
	cfg.Quiz.CorrectMarker = "@"
	cfg.Quiz.AnswerSeparator = ":"
	cfg.Quiz.MaxAnswers = 7
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28
	return cfg
}

// Load reads YAML config from path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional behaves like Load but falls back to defaults when path does not exist.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the quiz format settings.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Quiz.Delimiter) != 1 {
		return fmt.Errorf("quiz.delimiter must be a single character, got %q", c.Quiz.Delimiter)
	}
	if c.Quiz.MaxAnswers < 1 {
		return fmt.Errorf("quiz.max_answers must be positive, got %d", c.Quiz.MaxAnswers)
	}
	if c.Quiz.AnswerSeparator == c.Quiz.Delimiter {
		return fmt.Errorf("quiz.answer_separator must differ from quiz.delimiter")
	}
	return nil
}

// DelimiterRune returns the field delimiter as a rune.
func (c Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Quiz.Delimiter)
	return r
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

package main

import (
	"time"

	"github.com/turbekoff/scicalc/pkg/calc"
	"github.com/turbekoff/scicalc/pkg/env"
	"github.com/turbekoff/scicalc/pkg/solver"
)

type Config struct {
	BotToken        string         `env:"SCICALC_TELEGRAM_TOKEN"`
	BotOffset       int            `env:"SCICALC_TELEGRAM_OFFSET" env-default:"0"`
	BotTimeout      int            `env:"SCICALC_TELEGRAM_TIMEOUT" env-default:"60"`
	AllowedUsers    []int64        `env:"SCICALC_ALLOWED_USERS"`
	SessionTTL      time.Duration  `env:"SCICALC_SESSION_TTL" env-default:"20m"`
	SessionCleanup  time.Duration  `env:"SCICALC_SESSION_CLEANUP" env-default:"1m"`
	ShutdownTimeout time.Duration  `env:"SCICALC_SHUTDOWN_TIMEOUT" env-default:"2m"`
	AngleUnit       calc.AngleUnit `env:"SCICALC_ANGLE_UNIT" env-default:"DEG"`
	GeminiAPIKey    string         `env:"SCICALC_GEMINI_API_KEY"`
	GeminiModel     string         `env:"SCICALC_GEMINI_MODEL" env-default:"gemini-3-flash-preview"`
	GeminiEndpoint  string         `env:"SCICALC_GEMINI_ENDPOINT" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	SolveTimeout    time.Duration  `env:"SCICALC_SOLVE_TIMEOUT" env-default:"30s"`
	Debug           bool           `env:"SCICALC_DEBUG"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Read(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) SolverConfig() solver.Config {
	return solver.Config{
		APIKey:   c.GeminiAPIKey,
		Model:    c.GeminiModel,
		Endpoint: c.GeminiEndpoint,
		Timeout:  c.SolveTimeout,
	}
}

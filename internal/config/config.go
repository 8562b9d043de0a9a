package config

import (
	"fmt"

	"ctchen222/tictactoe-bot/internal/bot"
	"ctchen222/tictactoe-bot/internal/game"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Bot       Bot       `yaml:"bot"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type Bot struct {
	DefaultPlayer     string `yaml:"default-player" env:"BOT_DEFAULT_PLAYER" env-default:"O"`
	DefaultDifficulty string `yaml:"default-difficulty" env:"BOT_DEFAULT_DIFFICULTY" env-default:"top"`
	// Seed makes the difficulty gate reproducible; 0 uses the global generator.
	Seed uint64 `yaml:"seed" env:"BOT_SEED" env-default:"0"`
}

type Telemetry struct {
	Enabled        bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	// Stdout pretty-prints spans to stderr, with or without a collector.
	Stdout         bool   `yaml:"stdout" env:"OTEL_STDOUT" env-default:"false"`
	Endpoint       string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"otel-collector:4317"`
	ServiceName    string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tic-tac-toe-bot"`
	ServiceVersion string `yaml:"service-version" env:"OTEL_SERVICE_VERSION" env-default:"v0.1.0"`
}

// Load reads the YAML file at path, overlaid with environment variables.
// An empty path reads the environment only.
func Load(path string) (*Config, error) {
	conf := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(conf); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}
		return conf, nil
	}

	if err := cleanenv.ReadConfig(path, conf); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}
	return conf, nil
}

// MustLoad - load configuration or panic.
func MustLoad(path string) *Config {
	conf, err := Load(path)
	if err != nil {
		panic(err)
	}
	return conf
}

// SelectorOptions turns the bot section into selector options.
func (that Bot) SelectorOptions() []bot.Option {
	opts := []bot.Option{
		bot.WithDefaultPlayer(game.PlayerMark(that.DefaultPlayer)),
		bot.WithDefaultDifficulty(bot.Difficulty(that.DefaultDifficulty)),
	}
	if that.Seed != 0 {
		opts = append(opts, bot.WithSource(bot.NewSeededSource(that.Seed)))
	}
	return opts
}

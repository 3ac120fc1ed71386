// Package config loads the bot's configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the bot needs to start.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required,notEmpty"`
	DatabasePath string `env:"DATABASE_PATH,required,notEmpty"`
	GuildID      string `env:"GUILD_ID,required,notEmpty"`
}

// FromEnv parses the configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

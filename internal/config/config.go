// Package config loads process configuration from environment variables,
// with defaults suitable for local play.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/AnJayAx/Personality-Parade/internal/room"
)

type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Flavor  FlavorConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

type GameConfig struct {
	MinPlayers      int
	MaxPlayers      int
	TotalRounds     int
	CategoryChoices int
	AssignSeconds   int
}

type FlavorConfig struct {
	OpenAIKey      string
	OpenAIModel    string
	TimeoutSeconds int
}

type LoggingConfig struct {
	Level string
}

// Load reads every setting from the environment, falling back to defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			MinPlayers:      getEnvInt("MIN_PLAYERS", 2),
			MaxPlayers:      getEnvInt("MAX_PLAYERS", 8),
			TotalRounds:     getEnvInt("TOTAL_ROUNDS", 4),
			CategoryChoices: getEnvInt("CATEGORY_CHOICES", 5),
			AssignSeconds:   getEnvInt("ASSIGN_SECONDS", 60),
		},
		Flavor: FlavorConfig{
			OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			TimeoutSeconds: getEnvInt("FLAVOR_TIMEOUT_SECONDS", 10),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// RoomSettings maps game configuration onto per-room settings.
func (c *Config) RoomSettings() room.Settings {
	s := room.DefaultSettings()
	s.MinPlayers = c.Game.MinPlayers
	s.MaxPlayers = c.Game.MaxPlayers
	s.TotalRounds = c.Game.TotalRounds
	s.CategoryChoices = c.Game.CategoryChoices
	s.AssignTimeout = time.Duration(c.Game.AssignSeconds) * time.Second
	s.FlavorTimeout = time.Duration(c.Flavor.TimeoutSeconds) * time.Second
	return s
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

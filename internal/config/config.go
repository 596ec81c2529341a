package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	MinPlayers     int
	MaxPlayers     int
	SpinMax        int // movement and bonus rolls are uniform in [1, SpinMax]
	RoomCodeLength int
	SettleDelay    time.Duration // pause between a resolved spin and the turn advance

	// HostAutoJoin seats the room creator immediately instead of requiring
	// an explicit join.
	HostAutoJoin bool

	// RestrictSideSpins limits extra/rescue spins and card draws to the
	// seat currently holding the turn.
	RestrictSideSpins bool

	StaleRoomTimeout time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from the environment with defaults. A .env file
// in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			MinPlayers:        getEnvInt("MIN_PLAYERS", 2),
			MaxPlayers:        getEnvInt("MAX_PLAYERS", 8),
			SpinMax:           getEnvInt("SPIN_MAX", 10),
			RoomCodeLength:    getEnvInt("ROOM_CODE_LENGTH", 5),
			SettleDelay:       time.Duration(getEnvInt("SETTLE_DELAY_MS", 3000)) * time.Millisecond,
			HostAutoJoin:      getEnvBool("HOST_AUTO_JOIN", false),
			RestrictSideSpins: getEnvBool("RESTRICT_SIDE_SPINS", true),
			StaleRoomTimeout:  time.Duration(getEnvInt("STALE_ROOM_TIMEOUT_MINUTES", 120)) * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns an environment variable as a boolean or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

package timero

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

type ConfigKey = string

const (
	DatabaseURLKey    ConfigKey = "db_path"
	LogLevelKey       ConfigKey = "log.level"
	TickIntervalKey   ConfigKey = "timer.tick"
	AutoStartDelayKey ConfigKey = "timer.auto_start_delay"
	AlarmBellKey      ConfigKey = "alarm.bell"
)

type Config struct {
	DatabaseURL    string
	LogLevel       string
	TickInterval   time.Duration
	AutoStartDelay time.Duration
	AlarmBell      bool
}

// LoadEnv loads .env.dev, or .env in production, into the process environment.
// Missing files are ignored.
func LoadEnv(isProd bool) {
	if isProd {
		_ = godotenv.Load(".env")
	} else {
		_ = godotenv.Load(".env.dev")
	}
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("required config: %s", DatabaseURLKey)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%s must be positive, got %s", TickIntervalKey, c.TickInterval)
	}
	if c.AutoStartDelay < 0 {
		return fmt.Errorf("%s must not be negative, got %s", AutoStartDelayKey, c.AutoStartDelay)
	}
	return nil
}

// internal/workers/notification/mark-notification-read/config.go
package marknotificationread

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

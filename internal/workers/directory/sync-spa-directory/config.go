// internal/workers/directory/sync-spa-directory/config.go
package syncspadirectory

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

// internal/workers/spa/resubmit-spa/config.go
package resubmitspa

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

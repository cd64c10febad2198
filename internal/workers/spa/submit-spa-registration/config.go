// internal/workers/spa/submit-spa-registration/config.go
package submitsparegistration

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

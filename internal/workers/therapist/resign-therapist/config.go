// internal/workers/therapist/resign-therapist/config.go
package resigntherapist

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

// internal/workers/therapist/resubmit-therapist/config.go
package resubmittherapist

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

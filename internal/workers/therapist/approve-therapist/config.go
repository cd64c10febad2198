// internal/workers/therapist/approve-therapist/config.go
package approvetherapist

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

// internal/workers/therapist/reject-therapist/config.go
package rejecttherapist

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

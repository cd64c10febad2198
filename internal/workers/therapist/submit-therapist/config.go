// internal/workers/therapist/submit-therapist/config.go
package submittherapist

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

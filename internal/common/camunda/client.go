// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spa-registry/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// RetryConfig defines backoff for the initial broker connection.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries: 5,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// Connect creates the Zeebe client and waits until the gateway answers a topology
// request, backing off between attempts on transient failures.
func Connect(ctx context.Context, cfg config.CamundaConfig, retry RetryConfig) (zbc.Client, error) {
	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: cfg.Plaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	requestTimeout := config.GetDuration(cfg.RequestTimeout)
	err = WithRetry(ctx, retry, func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		_, err := client.NewTopologyCommand().Send(reqCtx)
		return err
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.BrokerAddress, err)
	}
	return client, nil
}

// WithRetry runs fn until it succeeds, fails with a non-transient error, or the
// retry budget runs out.
func WithRetry(ctx context.Context, retry RetryConfig, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= retry.MaxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsTransient(err) || attempt == retry.MaxRetries {
			break
		}

		delay := retry.BaseDelay * time.Duration(1<<attempt)
		if delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("cancelled after %d attempts: %w", attempt+1, ctx.Err())
		}
	}
	return lastErr
}

// IsTransient reports whether a gateway error is worth retrying.
func IsTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

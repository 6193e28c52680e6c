package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

// BaseProvider carries the HTTP plumbing shared by provider calls:
// configured client timeout, default headers, rate limiting and
// retry with exponential backoff.
type BaseProvider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewBaseProvider creates the shared provider plumbing.
func NewBaseProvider(config *types.ProviderConfig) *BaseProvider {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// The hotel API meters by requests per second; burst of one keeps
	// paginated scans inside the quota.
	rps := config.RateLimit
	if rps <= 0 {
		rps = 2
	}

	return &BaseProvider{
		config:     config,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// GetConfig returns the provider configuration.
func (b *BaseProvider) GetConfig() *types.ProviderConfig {
	return b.config
}

// BuildDefaultHeaders builds the headers every provider request carries.
// APIHost is configured as a base URL; the host header wants the bare
// hostname.
func (b *BaseProvider) BuildDefaultHeaders() map[string]string {
	host := b.config.APIHost
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	}
	return map[string]string{
		"Accept":          "application/json",
		"x-rapidapi-host": host,
		"x-rapidapi-key":  b.config.APIKey,
	}
}

// DoRequest executes an HTTP request with rate limiting and retry
// logic. Timeouts are normalized to types.ErrProviderTimeout so
// callers can branch without knowing the transport.
func (b *BaseProvider) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := b.config.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, b.classify(err)
		}

		resp, err := b.httpClient.Do(req.WithContext(ctx))
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if isTimeout(err) {
			// Retrying a timed-out call would blow the step deadline.
			return nil, b.classify(err)
		}

		// Exponential backoff
		if i < maxRetries-1 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			select {
			case <-ctx.Done():
				return nil, b.classify(ctx.Err())
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// Validate validates the provider configuration.
func (b *BaseProvider) Validate() error {
	return b.config.Validate()
}

func (b *BaseProvider) classify(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", types.ErrProviderTimeout, err)
	}
	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

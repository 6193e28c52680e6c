package types

import "time"

// Destination is one location candidate returned by the provider's
// location lookup.
type Destination struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

// Property is one hotel entry as returned by the provider. Immutable
// once returned.
type Property struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	StarRating   float64 `json:"star_rating"`
	Address      string  `json:"address"`
	CurrentPrice string  `json:"current_price"`
	TotalPrice   string  `json:"total_price"`
	ThumbnailURL string  `json:"thumbnail_url"`

	// LandmarkDistance is the provider's free-text distance from the
	// reference landmark ("1.2 miles"). LandmarkDistanceKm is the
	// parsed value, populated only on the best-deal path.
	LandmarkDistance   string  `json:"landmark_distance,omitempty"`
	LandmarkDistanceKm float64 `json:"landmark_distance_km,omitempty"`
}

// ListQuery describes one page of a property listing request.
type ListQuery struct {
	DestinationID string
	CheckIn       time.Time
	CheckOut      time.Time
	SortOrder     string
	PriceMin      *float64
	PriceMax      *float64
	PageNumber    int
	PageSize      int
}

// ProviderConfig configures the hotel-search provider client. It is
// populated from the application config at wiring time.
type ProviderConfig struct {
	APIHost    string
	APIKey     string
	Locale     string
	Currency   string
	Timeout    time.Duration // per-request deadline, default 30s
	MaxRetries int           // default 3
	RateLimit  float64       // requests per second, default 2
}

// Validate validates the provider configuration.
func (c *ProviderConfig) Validate() error {
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

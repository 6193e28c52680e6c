// Package hotels defines the contract to the external hotel-search
// provider and the landmark-distance parsing shared by its consumers.
package hotels

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

// Gateway is the hotel-search provider as seen by the core. Location
// lookup, paged property listing and photo listing; everything else
// about the provider (wire format, auth, retries) stays behind it.
type Gateway interface {
	// LookupDestinations resolves a free-text query into location
	// candidates, in provider order.
	LookupDestinations(ctx context.Context, query string) ([]types.Destination, error)

	// ListProperties fetches one page of hotel listings. An empty
	// slice is a valid return.
	ListProperties(ctx context.Context, q types.ListQuery) ([]types.Property, error)

	// ListPhotos returns photo URLs for one hotel.
	ListPhotos(ctx context.Context, hotelID int64) ([]string, error)
}

var distancePattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParseLandmarkDistance extracts the numeric kilometer value from the
// provider's free-text distance ("1,2 km" -> 1.2). The first numeric
// token wins; a decimal comma is normalized to a point.
func ParseLandmarkDistance(text string) (float64, error) {
	token := distancePattern.FindString(text)
	if token == "" {
		return 0, fmt.Errorf("no distance in %q: %w", text, types.ErrInvalidResponse)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("bad distance token %q: %w", token, types.ErrInvalidResponse)
	}
	return v, nil
}

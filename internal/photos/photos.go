// Package photos serves "show me pictures" requests for a hotel from
// the result list.
package photos

import (
	"context"
	"math/rand"

	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels"
)

// MaxPhotos bounds one photo request.
const MaxPhotos = 10

// PhotoUseCase picks a random sample of a hotel's photos.
type PhotoUseCase struct {
	gateway hotels.Gateway
}

func NewPhotoUseCase(gateway hotels.Gateway) *PhotoUseCase {
	return &PhotoUseCase{gateway: gateway}
}

// Pick returns count random photo URLs for the hotel, count clamped to
// [1, MaxPhotos]. Fewer URLs come back when the hotel has fewer photos.
func (uc *PhotoUseCase) Pick(ctx context.Context, hotelID int64, count int) ([]string, error) {
	urls, err := uc.gateway.ListPhotos(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, nil
	}

	if count > MaxPhotos {
		count = MaxPhotos
	}
	if count < 1 {
		count = 1
	}
	if count > len(urls) {
		count = len(urls)
	}

	picked := make([]string, 0, count)
	for _, i := range rand.Perm(len(urls))[:count] {
		picked = append(picked, urls[i])
	}
	return picked, nil
}

package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ViacheslavGolubkov/hotelscout/internal/criteria"
	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

// fakeGateway serves scripted pages and records every page number asked
// for.
type fakeGateway struct {
	pages      map[int][]types.Property
	pagesAsked []int
	err        error
}

func (f *fakeGateway) LookupDestinations(ctx context.Context, query string) ([]types.Destination, error) {
	return nil, nil
}

func (f *fakeGateway) ListProperties(ctx context.Context, q types.ListQuery) ([]types.Property, error) {
	f.pagesAsked = append(f.pagesAsked, q.PageNumber)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[q.PageNumber], nil
}

func (f *fakeGateway) ListPhotos(ctx context.Context, hotelID int64) ([]string, error) {
	return nil, nil
}

func propertiesAt(distances ...float64) []types.Property {
	out := make([]types.Property, 0, len(distances))
	for i, d := range distances {
		out = append(out, types.Property{
			ID:               int64(i + 1),
			Name:             fmt.Sprintf("Hotel %d", i+1),
			LandmarkDistance: fmt.Sprintf("%.1f km", d),
		})
	}
	return out
}

func bestDealCriteria(count int, distMin, distMax float64) *criteria.Criteria {
	crit := criteria.New(1, criteria.ModeBestDeal)
	crit.DestinationID = "1506246"
	crit.CheckIn = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	crit.CheckOut = time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	priceMin, priceMax := 20.0, 200.0
	crit.PriceMin = &priceMin
	crit.PriceMax = &priceMax
	crit.DistanceMin = &distMin
	crit.DistanceMax = &distMax
	crit.ResultCount = count
	return crit
}

func TestCollectStopsAtDistanceBound(t *testing.T) {
	gw := &fakeGateway{pages: map[int][]types.Property{
		1: propertiesAt(1, 2, 3, 6, 7),
	}}
	svc := NewService(gw, zap.NewNop())

	got, err := svc.Search(context.Background(), bestDealCriteria(3, 0, 5))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1}, gw.pagesAsked)
	assert.Equal(t, 1.0, got[0].LandmarkDistanceKm)
	assert.Equal(t, 3.0, got[2].LandmarkDistanceKm)
}

func TestCollectSpansPages(t *testing.T) {
	gw := &fakeGateway{pages: map[int][]types.Property{
		1: propertiesAt(0.5, 1.0),
		2: propertiesAt(1.5, 2.0),
	}}
	svc := NewService(gw, zap.NewNop())

	got, err := svc.Search(context.Background(), bestDealCriteria(4, 0, 5))
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, []int{1, 2}, gw.pagesAsked)
}

func TestCollectSkipsBelowMinDistance(t *testing.T) {
	gw := &fakeGateway{pages: map[int][]types.Property{
		1: propertiesAt(0.2, 0.4, 1.1, 1.8),
	}}
	svc := NewService(gw, zap.NewNop())

	got, err := svc.Search(context.Background(), bestDealCriteria(5, 1, 2))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.1, got[0].LandmarkDistanceKm)
	assert.Equal(t, 1.8, got[1].LandmarkDistanceKm)
}

func TestCollectEmptyFirstPage(t *testing.T) {
	gw := &fakeGateway{pages: map[int][]types.Property{}}
	svc := NewService(gw, zap.NewNop())

	_, err := svc.Search(context.Background(), bestDealCriteria(3, 0, 5))
	assert.ErrorIs(t, err, types.ErrNoResults)
}

func TestCollectPartialThenEmptyPage(t *testing.T) {
	gw := &fakeGateway{pages: map[int][]types.Property{
		1: propertiesAt(1, 2),
	}}
	svc := NewService(gw, zap.NewNop())

	got, err := svc.Search(context.Background(), bestDealCriteria(5, 0, 5))
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []int{1, 2}, gw.pagesAsked)
}

func TestCollectAllBeyondBound(t *testing.T) {
	gw := &fakeGateway{pages: map[int][]types.Property{
		1: propertiesAt(6, 7, 8),
	}}
	svc := NewService(gw, zap.NewNop())

	_, err := svc.Search(context.Background(), bestDealCriteria(3, 0, 5))
	assert.ErrorIs(t, err, types.ErrNoResults)
	assert.Equal(t, []int{1}, gw.pagesAsked)
}

func TestCollectBadDistanceText(t *testing.T) {
	gw := &fakeGateway{pages: map[int][]types.Property{
		1: {{ID: 1, Name: "Hotel 1", LandmarkDistance: "city center"}},
	}}
	svc := NewService(gw, zap.NewNop())

	_, err := svc.Search(context.Background(), bestDealCriteria(3, 0, 5))
	assert.ErrorIs(t, err, types.ErrInvalidResponse)
}

func TestListTruncatesToCount(t *testing.T) {
	gw := &fakeGateway{pages: map[int][]types.Property{
		1: propertiesAt(1, 2, 3, 4),
	}}
	svc := NewService(gw, zap.NewNop())

	crit := criteria.New(1, criteria.ModeLowestPrice)
	crit.DestinationID = "1506246"
	crit.ResultCount = 2

	got, err := svc.Search(context.Background(), crit)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []int{1}, gw.pagesAsked)
}

func TestListEmpty(t *testing.T) {
	gw := &fakeGateway{pages: map[int][]types.Property{}}
	svc := NewService(gw, zap.NewNop())

	crit := criteria.New(1, criteria.ModeHighestPrice)
	crit.ResultCount = 3

	_, err := svc.Search(context.Background(), crit)
	assert.ErrorIs(t, err, types.ErrNoResults)
}

func TestListPropagatesProviderError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("boom")}
	svc := NewService(gw, zap.NewNop())

	crit := criteria.New(1, criteria.ModeLowestPrice)
	crit.ResultCount = 3

	_, err := svc.Search(context.Background(), crit)
	assert.Error(t, err)
}

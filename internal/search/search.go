// Package search turns completed criteria into a bounded, ordered
// result list: a single-page fetch for the price-sorted modes, a
// paginated distance-filtered scan for best deal.
package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/ViacheslavGolubkov/hotelscout/internal/criteria"
	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels"
	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

// Service dispatches a completed search to the collector or the direct
// listing depending on mode.
type Service struct {
	gateway hotels.Gateway
	logger  *zap.Logger
}

func NewService(gateway hotels.Gateway, logger *zap.Logger) *Service {
	return &Service{gateway: gateway, logger: logger}
}

// Search runs the search described by crit. Returns
// types.ErrNoResults when nothing qualifies.
func (s *Service) Search(ctx context.Context, crit *criteria.Criteria) ([]types.Property, error) {
	if crit.Mode == criteria.ModeBestDeal {
		return s.collect(ctx, crit)
	}
	return s.list(ctx, crit)
}

// list is the single-page fetch for the lowest/highest price modes.
func (s *Service) list(ctx context.Context, crit *criteria.Criteria) ([]types.Property, error) {
	properties, err := s.gateway.ListProperties(ctx, types.ListQuery{
		DestinationID: crit.DestinationID,
		CheckIn:       crit.CheckIn,
		CheckOut:      crit.CheckOut,
		SortOrder:     crit.Mode.SortOrder(),
		PageNumber:    1,
		PageSize:      crit.ResultCount,
	})
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, types.ErrNoResults
	}
	if len(properties) > crit.ResultCount {
		properties = properties[:crit.ResultCount]
	}
	s.logger.Info("direct listing complete",
		zap.Int64("user_id", crit.UserID),
		zap.String("sort_order", crit.Mode.SortOrder()),
		zap.Int("results", len(properties)))
	return properties, nil
}

// collect is the paginated best-deal scan. Pages arrive sorted
// ascending by landmark distance, so the first listing beyond
// DistanceMax ends the whole scan.
func (s *Service) collect(ctx context.Context, crit *criteria.Criteria) ([]types.Property, error) {
	var accumulated []types.Property
	exceeded := false

	for page := 1; len(accumulated) < crit.ResultCount && !exceeded; page++ {
		properties, err := s.gateway.ListProperties(ctx, types.ListQuery{
			DestinationID: crit.DestinationID,
			CheckIn:       crit.CheckIn,
			CheckOut:      crit.CheckOut,
			SortOrder:     crit.Mode.SortOrder(),
			PriceMin:      crit.PriceMin,
			PriceMax:      crit.PriceMax,
			PageNumber:    page,
			PageSize:      crit.ResultCount,
		})
		if err != nil {
			return nil, err
		}
		if len(properties) == 0 {
			break
		}

		for _, p := range properties {
			distance, err := hotels.ParseLandmarkDistance(p.LandmarkDistance)
			if err != nil {
				return nil, err
			}
			if distance > *crit.DistanceMax {
				exceeded = true
				break
			}
			if distance >= *crit.DistanceMin {
				p.LandmarkDistanceKm = distance
				accumulated = append(accumulated, p)
			}
		}
	}

	if len(accumulated) == 0 {
		return nil, types.ErrNoResults
	}
	if len(accumulated) > crit.ResultCount {
		accumulated = accumulated[:crit.ResultCount]
	}
	s.logger.Info("best deal scan complete",
		zap.Int64("user_id", crit.UserID),
		zap.Int("results", len(accumulated)),
		zap.Bool("distance_exceeded", exceeded))
	return accumulated, nil
}

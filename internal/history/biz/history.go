package biz

import (
	"context"

	"github.com/ViacheslavGolubkov/hotelscout/internal/criteria"
)

// HistoryRepo defines the interface for search-history persistence.
// Records are append-only.
type HistoryRepo interface {
	Append(ctx context.Context, record *criteria.HistoryRecord) error
	List(ctx context.Context, userID int64) ([]*criteria.HistoryRecord, error)
}

// HistoryUseCase exposes the history of completed searches.
type HistoryUseCase struct {
	repo HistoryRepo
}

func NewHistoryUseCase(repo HistoryRepo) *HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

func (uc *HistoryUseCase) Append(ctx context.Context, record *criteria.HistoryRecord) error {
	return uc.repo.Append(ctx, record)
}

func (uc *HistoryUseCase) List(ctx context.Context, userID int64) ([]*criteria.HistoryRecord, error) {
	return uc.repo.List(ctx, userID)
}

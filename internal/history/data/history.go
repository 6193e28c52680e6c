package data

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/ViacheslavGolubkov/hotelscout/internal/criteria"
	"github.com/ViacheslavGolubkov/hotelscout/internal/history/biz"
	"github.com/ViacheslavGolubkov/hotelscout/internal/hotels/types"
)

// ResultsJSON stores the delivered result list as a JSONB column.
type ResultsJSON []types.Property

func (j *ResultsJSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (j ResultsJSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// HistoryPO represents the database model
type HistoryPO struct {
	ID        string      `gorm:"type:uuid;primarykey"`
	UserID    int64       `gorm:"not null;index:idx_history_user_id"`
	Mode      string      `gorm:"size:32;not null"`
	Results   ResultsJSON `gorm:"type:jsonb"`
	CreatedAt time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (HistoryPO) TableName() string {
	return "history"
}

// HistoryRepo implements biz.HistoryRepo interface
type HistoryRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) biz.HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Append(ctx context.Context, record *criteria.HistoryRecord) error {
	po := &HistoryPO{
		ID:        record.ID,
		UserID:    record.UserID,
		Mode:      string(record.Mode),
		Results:   ResultsJSON(record.Results),
		CreatedAt: record.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *HistoryRepo) List(ctx context.Context, userID int64) ([]*criteria.HistoryRecord, error) {
	var pos []HistoryPO
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&pos).Error; err != nil {
		return nil, err
	}

	records := make([]*criteria.HistoryRecord, len(pos))
	for i, po := range pos {
		records[i] = &criteria.HistoryRecord{
			ID:        po.ID,
			UserID:    po.UserID,
			Mode:      criteria.Mode(po.Mode),
			CreatedAt: po.CreatedAt,
			Results:   []types.Property(po.Results),
		}
	}
	return records, nil
}

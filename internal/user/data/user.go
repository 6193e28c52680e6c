package data

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ViacheslavGolubkov/hotelscout/internal/user/biz"
)

// UserPO represents the database model
type UserPO struct {
	ID        int64     `gorm:"primarykey"`
	FirstName string    `gorm:"size:255"`
	LastName  string    `gorm:"size:255"`
	Username  string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (UserPO) TableName() string {
	return "users"
}

// UserRepo implements biz.UserRepo interface
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) biz.UserRepo {
	return &UserRepo{db: db}
}

// Upsert inserts the user, ignoring the write when the id is already
// registered.
func (r *UserRepo) Upsert(ctx context.Context, user *biz.User) error {
	po := &UserPO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(po).Error
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*biz.User, error) {
	var po UserPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, err
	}

	return &biz.User{
		ID:        po.ID,
		FirstName: po.FirstName,
		LastName:  po.LastName,
		Username:  po.Username,
		CreatedAt: po.CreatedAt,
	}, nil
}

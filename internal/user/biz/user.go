package biz

import (
	"context"
	"time"
)

// User represents the domain model
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	CreatedAt time.Time
}

// UserRepo defines the interface for user data operations
type UserRepo interface {
	Upsert(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
}

// UserUseCase contains business logic for user operations
type UserUseCase struct {
	repo UserRepo
}

func NewUserUseCase(repo UserRepo) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Register records a chat user on first contact. Re-registering an
// already known user is a no-op.
func (uc *UserUseCase) Register(ctx context.Context, id int64, firstName, lastName, username string) (*User, error) {
	user := &User{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		CreatedAt: time.Now(),
	}

	if err := uc.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, id int64) (*User, error) {
	return uc.repo.GetByID(ctx, id)
}

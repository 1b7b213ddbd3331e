package auth

import (
	"context"

	"taskboard/internal/domain"
)

// UserRepository defines the persistence surface used by the auth service
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

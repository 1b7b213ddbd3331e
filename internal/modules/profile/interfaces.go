package profile

import (
	"context"

	"taskboard/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateAvatar(ctx context.Context, id int64, url, path string) error
}

package profile

import (
	"context"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/domain"
	"taskboard/internal/pkg/cloudinary"
)

type Service struct {
	users   UserRepository
	storage cloudinary.Client
}

func NewService(users UserRepository, storage cloudinary.Client) *Service {
	return &Service{users: users, storage: storage}
}

func (s *Service) UpdateName(ctx context.Context, userID int64, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}
	if err := s.users.UpdateName(ctx, userID, name); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// UploadAvatar stores the blob in object storage and records the public
// URL. The storage path is kept so the blob can be deleted later.
func (s *Service) UploadAvatar(ctx context.Context, userID int64, file io.Reader) (*domain.User, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	publicID := fmt.Sprintf("user_%d", userID)
	url, err := s.storage.Upload(ctx, file, publicID)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateAvatar(ctx, userID, url, publicID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *Service) DeleteAvatar(ctx context.Context, userID int64) error {
	if s.storage == nil {
		return ErrStorageDisabled
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.AvatarPath != "" {
		if err := s.storage.Delete(ctx, user.AvatarPath); err != nil {
			return err
		}
	}
	return s.users.UpdateAvatar(ctx, userID, "", "")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/kmalikov/competition-system/storage"
	"github.com/shopspring/decimal"
)

var ErrHandicapOutOfRange = errors.New("handicap must be between -10 and 54")

type UserService interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	UpdateHandicap(ctx context.Context, callerRole models.UserRole, userID int, handicap *decimal.Decimal) error
	UploadLogo(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *userService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}

// UpdateHandicap обновляет гандикап игрока. Разрешено только администратору:
// гандикап влияет на порядок драфта, игрок не должен менять его сам.
func (s *userService) UpdateHandicap(ctx context.Context, callerRole models.UserRole, userID int, handicap *decimal.Decimal) error {
	if callerRole != models.RoleAdmin {
		return ErrForbiddenOperation
	}
	if handicap != nil {
		if handicap.LessThan(decimal.NewFromInt(-10)) || handicap.GreaterThan(decimal.NewFromInt(54)) {
			return ErrHandicapOutOfRange
		}
	}
	err := s.userRepo.UpdateHandicap(ctx, userID, handicap)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *userService) UploadLogo(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("users/%d/logo%s", userID, ext)

	oldKey := user.LogoKey
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload user logo: %w", err)
	}
	if err := s.userRepo.UpdateLogoKey(ctx, userID, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete previous user logo",
				slog.Int("user_id", userID), slog.String("key", *oldKey), slog.Any("error", delErr))
		}
	}

	user.LogoKey = &result.Key
	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}

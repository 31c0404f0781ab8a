package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kmalikov/competition-system/models"
	"github.com/kmalikov/competition-system/repositories"
	"github.com/kmalikov/competition-system/storage"
)

var (
	ErrGolfCourseNameRequired    = errors.New("golf course name is required")
	ErrGolfCourseCountryRequired = errors.New("golf course country code is required")
	ErrGolfCourseInvalidHoles    = errors.New("golf course must have 9 or 18 holes")
)

type CreateGolfCourseInput struct {
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	City        *string `json:"city,omitempty"`
	HolesCount  int     `json:"holes_count"`
}

// GolfCourseService покрывает каталог гольф-полей. Модерация двухшаговая:
// новое поле создаётся в pending и становится пригодным для соревнований
// после approve администратором.
type GolfCourseService interface {
	CreateGolfCourse(ctx context.Context, submitterID int, input CreateGolfCourseInput) (*models.GolfCourse, error)
	GetGolfCourseByID(ctx context.Context, id int) (*models.GolfCourse, error)
	ListGolfCourses(ctx context.Context, filter repositories.ListGolfCoursesFilter) ([]models.GolfCourse, error)
	ApproveGolfCourse(ctx context.Context, id int) error
	UploadPhoto(ctx context.Context, id int, contentType string, file io.Reader) (*models.GolfCourse, error)
}

type golfCourseService struct {
	golfCourseRepo repositories.GolfCourseRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewGolfCourseService(golfCourseRepo repositories.GolfCourseRepository, uploader storage.FileUploader, logger *slog.Logger) GolfCourseService {
	return &golfCourseService{
		golfCourseRepo: golfCourseRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *golfCourseService) CreateGolfCourse(ctx context.Context, submitterID int, input CreateGolfCourseInput) (*models.GolfCourse, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrGolfCourseNameRequired
	}
	if strings.TrimSpace(input.CountryCode) == "" {
		return nil, ErrGolfCourseCountryRequired
	}
	if input.HolesCount != 9 && input.HolesCount != 18 {
		return nil, ErrGolfCourseInvalidHoles
	}

	course := &models.GolfCourse{
		Name:           input.Name,
		CountryCode:    strings.ToUpper(input.CountryCode),
		City:           input.City,
		HolesCount:     input.HolesCount,
		ApprovalStatus: models.GolfCourseStatusPending,
		SubmittedBy:    submitterID,
	}
	if err := s.golfCourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *golfCourseService) GetGolfCourseByID(ctx context.Context, id int) (*models.GolfCourse, error) {
	course, err := s.golfCourseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGolfCourseNotFound) {
			return nil, ErrGolfCourseNotFound
		}
		return nil, err
	}
	s.populatePhotoURL(course)
	return course, nil
}

func (s *golfCourseService) ListGolfCourses(ctx context.Context, filter repositories.ListGolfCoursesFilter) ([]models.GolfCourse, error) {
	courses, err := s.golfCourseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		s.populatePhotoURL(&courses[i])
	}
	return courses, nil
}

func (s *golfCourseService) ApproveGolfCourse(ctx context.Context, id int) error {
	err := s.golfCourseRepo.UpdateApprovalStatus(ctx, id, models.GolfCourseStatusApproved)
	if errors.Is(err, repositories.ErrGolfCourseNotFound) {
		return ErrGolfCourseNotFound
	}
	return err
}

func (s *golfCourseService) UploadPhoto(ctx context.Context, id int, contentType string, file io.Reader) (*models.GolfCourse, error) {
	course, err := s.GetGolfCourseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("golf-courses/%d/photo%s", id, ext)

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload golf course photo: %w", err)
	}
	if err := s.golfCourseRepo.UpdatePhotoKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}

	course.PhotoKey = &result.Key
	s.populatePhotoURL(course)
	return course, nil
}

func (s *golfCourseService) populatePhotoURL(course *models.GolfCourse) {
	if course == nil || course.PhotoKey == nil || *course.PhotoKey == "" || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*course.PhotoKey)
	if url != "" {
		course.PhotoURL = &url
	}
}

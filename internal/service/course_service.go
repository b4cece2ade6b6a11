package service

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCourseNotFound = errors.New("course not found")
)

type CourseService interface {
	Create(ctx context.Context, name, description string) (*domain.Course, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Update(ctx context.Context, id primitive.ObjectID, name, description string) (*domain.Course, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type courseService struct {
	courseRepo repository.CourseRepository
}

func NewCourseService(courseRepo repository.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

func (s *courseService) Create(ctx context.Context, name, description string) (*domain.Course, error) {
	if name == "" {
		return nil, errors.New("course name cannot be empty")
	}

	course := &domain.Course{
		Name:        name,
		Description: description,
	}
	id, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.courseRepo.List(ctx)
}

// Update renames a course; the content ID arrays are managed by the media and
// quiz services, not here.
func (s *courseService) Update(ctx context.Context, id primitive.ObjectID, name, description string) (*domain.Course, error) {
	if name == "" {
		return nil, errors.New("course name cannot be empty")
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	course.Name = name
	course.Description = description
	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.courseRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCourseNotFound
	}
	return err
}

package service

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

type ReviewService interface {
	Create(ctx context.Context, userID, courseID primitive.ObjectID, rating int, text string) (*domain.Review, error)
	List(ctx context.Context) ([]domain.Review, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Review, error)
	Reply(ctx context.Context, id primitive.ObjectID, reply string) (*domain.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	courseRepo repository.CourseRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, courseRepo repository.CourseRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, courseRepo: courseRepo}
}

func (s *reviewService) Create(ctx context.Context, userID, courseID primitive.ObjectID, rating int, text string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	review := &domain.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Text:     text,
	}
	id, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, err
	}
	review.ID = id
	return review, nil
}

func (s *reviewService) List(ctx context.Context) ([]domain.Review, error) {
	return s.reviewRepo.List(ctx)
}

func (s *reviewService) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Review, error) {
	return s.reviewRepo.ListByCourse(ctx, courseID)
}

func (s *reviewService) Reply(ctx context.Context, id primitive.ObjectID, reply string) (*domain.Review, error) {
	if reply == "" {
		return nil, errors.New("reply cannot be empty")
	}
	review, err := s.reviewRepo.SetAdminReply(ctx, id, reply)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.reviewRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrReviewNotFound
	}
	return err
}

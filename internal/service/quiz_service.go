package service

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrQuizNotFound = errors.New("quiz not found")
	ErrInvalidQuiz  = errors.New("invalid quiz structure")
)

type QuizService interface {
	Create(ctx context.Context, courseID primitive.ObjectID, title string, questions []domain.QuizQuestion) (*domain.Quiz, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Quiz, error)
	List(ctx context.Context) ([]domain.Quiz, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Quiz, error)
	Update(ctx context.Context, id primitive.ObjectID, title string, questions []domain.QuizQuestion) (*domain.Quiz, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type quizService struct {
	quizRepo   repository.QuizRepository
	courseRepo repository.CourseRepository
}

func NewQuizService(quizRepo repository.QuizRepository, courseRepo repository.CourseRepository) QuizService {
	return &quizService{quizRepo: quizRepo, courseRepo: courseRepo}
}

// validateQuestions enforces the structural rules: at least one question,
// every question at least two options, and at least one option marked
// correct per question.
func validateQuestions(questions []domain.QuizQuestion) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: quiz must have at least one question", ErrInvalidQuiz)
	}
	for i, q := range questions {
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidQuiz, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d must have at least two options", ErrInvalidQuiz, i+1)
		}
		hasCorrect := false
		for _, opt := range q.Options {
			if opt.Text == "" {
				return fmt.Errorf("%w: question %d has an empty option", ErrInvalidQuiz, i+1)
			}
			if opt.IsCorrect {
				hasCorrect = true
			}
		}
		if !hasCorrect {
			return fmt.Errorf("%w: question %d has no correct option", ErrInvalidQuiz, i+1)
		}
	}
	return nil
}

func (s *quizService) Create(ctx context.Context, courseID primitive.ObjectID, title string, questions []domain.QuizQuestion) (*domain.Quiz, error) {
	if title == "" {
		return nil, errors.New("quiz title cannot be empty")
	}
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	quiz := &domain.Quiz{
		CourseID:  courseID,
		Title:     title,
		Questions: questions,
	}
	id, err := s.quizRepo.Create(ctx, quiz)
	if err != nil {
		return nil, err
	}
	quiz.ID = id

	if err := s.courseRepo.AttachContent(ctx, courseID, repository.CourseQuizzes, id); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *quizService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *quizService) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizRepo.List(ctx)
}

func (s *quizService) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Quiz, error) {
	return s.quizRepo.ListByCourse(ctx, courseID)
}

func (s *quizService) Update(ctx context.Context, id primitive.ObjectID, title string, questions []domain.QuizQuestion) (*domain.Quiz, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	if title != "" {
		quiz.Title = title
	}
	quiz.Questions = questions
	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *quizService) Delete(ctx context.Context, id primitive.ObjectID) error {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuizNotFound
		}
		return err
	}
	if err := s.quizRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuizNotFound
		}
		return err
	}
	if err := s.courseRepo.DetachContent(ctx, quiz.CourseID, repository.CourseQuizzes, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

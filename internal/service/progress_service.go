package service

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCourseNotUnlocked = errors.New("course content is locked until payment is approved")
	ErrInvalidScore      = errors.New("score must be between 0 and 100")
)

// certificateURLPattern is where generated completion certificates are served
// from. Generation itself is handled out of band; the backend records the
// flag and hands back the canonical URL.
const certificateURLPattern = "https://certificates.clinigoal.com/%s-%s.pdf"

// QuizResult is what a learner sees after submitting a quiz score.
type QuizResult struct {
	Passed            bool `json:"passed"`
	Score             int  `json:"score"`
	RemainingAttempts int  `json:"remainingAttempts"`
	// Recorded is false when the attempt cap was already reached and the
	// submission was discarded.
	Recorded bool `json:"recorded"`
}

// ProgressService tracks a learner's journey through a paid course. Every
// mutating call checks the payment gate first; reads are allowed so the UI
// can render a locked state.
type ProgressService interface {
	Get(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error)
	MarkVideoWatched(ctx context.Context, userID, courseID, videoID primitive.ObjectID) (*domain.UserProgress, error)
	MarkNotesViewed(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error)
	MarkAssignmentSubmitted(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error)
	SubmitQuiz(ctx context.Context, userID, courseID primitive.ObjectID, quizTitle string, score int) (*QuizResult, error)
	GenerateCertificate(ctx context.Context, userID, courseID primitive.ObjectID) (certificateURL string, err error)
	ListSubmissions(ctx context.Context) ([]domain.QuizSubmission, error)
}

type progressService struct {
	progressRepo   repository.ProgressRepository
	submissionRepo repository.QuizSubmissionRepository
	paymentRepo    repository.PaymentRepository
	videoRepo      repository.VideoRepository
}

func NewProgressService(progressRepo repository.ProgressRepository, submissionRepo repository.QuizSubmissionRepository, paymentRepo repository.PaymentRepository, videoRepo repository.VideoRepository) ProgressService {
	return &progressService{
		progressRepo:   progressRepo,
		submissionRepo: submissionRepo,
		paymentRepo:    paymentRepo,
		videoRepo:      videoRepo,
	}
}

func (s *progressService) requireUnlocked(ctx context.Context, userID, courseID primitive.ObjectID) error {
	ok, err := s.paymentRepo.HasApproved(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCourseNotUnlocked
	}
	return nil
}

// Get returns the progress document, or an empty one when the learner has
// not touched the course yet. The document itself is only created by a
// mutating call.
func (s *progressService) Get(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	progress, err := s.progressRepo.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.UserProgress{UserID: userID, CourseID: courseID}, nil
		}
		return nil, err
	}
	return progress, nil
}

// MarkVideoWatched is idempotent: re-watching an already counted video
// leaves the watched set unchanged.
func (s *progressService) MarkVideoWatched(ctx context.Context, userID, courseID, videoID primitive.ObjectID) (*domain.UserProgress, error) {
	if err := s.requireUnlocked(ctx, userID, courseID); err != nil {
		return nil, err
	}
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return s.progressRepo.AddVideoWatched(ctx, userID, courseID, videoID)
}

func (s *progressService) MarkNotesViewed(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	if err := s.requireUnlocked(ctx, userID, courseID); err != nil {
		return nil, err
	}
	return s.progressRepo.SetNotesViewed(ctx, userID, courseID)
}

func (s *progressService) MarkAssignmentSubmitted(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	if err := s.requireUnlocked(ctx, userID, courseID); err != nil {
		return nil, err
	}
	return s.progressRepo.SetAssignmentSubmitted(ctx, userID, courseID)
}

// SubmitQuiz grades a submitted score against the pass threshold and records
// the attempt, up to the per-course cap. A submission past the cap is not an
// error: it returns a failed, unrecorded result so the frontend can show the
// "no attempts left" state.
func (s *progressService) SubmitQuiz(ctx context.Context, userID, courseID primitive.ObjectID, quizTitle string, score int) (*QuizResult, error) {
	if score < 0 || score > 100 {
		return nil, ErrInvalidScore
	}
	if err := s.requireUnlocked(ctx, userID, courseID); err != nil {
		return nil, err
	}

	// The size guard in AppendQuizAttempt makes the cap hold under
	// concurrent submissions; on ErrStale we re-read and retry once with
	// the fresh count.
	for retry := 0; ; retry++ {
		prior := 0
		progress, err := s.progressRepo.Get(ctx, userID, courseID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if progress != nil {
			prior = len(progress.QuizAttempts)
		}

		if prior >= domain.MaxQuizAttempts {
			return &QuizResult{Passed: false, Score: score, RemainingAttempts: 0, Recorded: false}, nil
		}

		attempt := domain.QuizAttempt{
			AttemptNumber: prior + 1,
			Score:         score,
			SubmittedAt:   time.Now(),
		}
		updated, err := s.progressRepo.AppendQuizAttempt(ctx, userID, courseID, attempt, prior)
		if err != nil {
			if errors.Is(err, repository.ErrStale) && retry == 0 {
				continue
			}
			if errors.Is(err, repository.ErrStale) {
				return &QuizResult{Passed: false, Score: score, RemainingAttempts: 0, Recorded: false}, nil
			}
			return nil, err
		}

		sub := &domain.QuizSubmission{
			UserID:      userID,
			CourseID:    courseID,
			QuizTitle:   quizTitle,
			Score:       score,
			SubmittedAt: attempt.SubmittedAt,
		}
		if _, err := s.submissionRepo.Create(ctx, sub); err != nil {
			return nil, err
		}

		return &QuizResult{
			Passed:            score >= domain.QuizPassScore,
			Score:             score,
			RemainingAttempts: updated.RemainingAttempts(),
			Recorded:          true,
		}, nil
	}
}

// GenerateCertificate flags completion and returns the certificate URL.
// Calling it again just returns the same URL.
func (s *progressService) GenerateCertificate(ctx context.Context, userID, courseID primitive.ObjectID) (string, error) {
	if err := s.requireUnlocked(ctx, userID, courseID); err != nil {
		return "", err
	}
	if _, err := s.progressRepo.SetCertificateGenerated(ctx, userID, courseID); err != nil {
		return "", err
	}
	return fmt.Sprintf(certificateURLPattern, userID.Hex(), courseID.Hex()), nil
}

func (s *progressService) ListSubmissions(ctx context.Context) ([]domain.QuizSubmission, error) {
	return s.submissionRepo.List(ctx)
}

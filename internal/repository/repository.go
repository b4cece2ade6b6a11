package repository

import (
	"clinigoal/backend/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate record")
	// ErrStale signals a guarded update whose precondition no longer held
	// (another request modified the document in between).
	ErrStale = RepositoryError("document modified concurrently")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository persists learner accounts and their password-reset OTP state.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	SetOTP(ctx context.Context, email, code string, expiresAt time.Time) error
	// ResetPassword stores the new hash and clears any OTP in one update.
	ResetPassword(ctx context.Context, email, passwordHash string) error
}

// AdminRepository persists privileged accounts. Structurally the same OTP
// surface as UserRepository, backed by a separate collection.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Admin, error)
	SetOTP(ctx context.Context, email, code string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, email, passwordHash string) error
}

// CourseContentField names a course's content reference array.
type CourseContentField string

const (
	CourseVideos  CourseContentField = "videoIds"
	CourseNotes   CourseContentField = "noteIds"
	CourseQuizzes CourseContentField = "quizIds"
)

// CourseRepository persists catalog roots.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AttachContent / DetachContent maintain the content ID arrays with
	// $addToSet / $pull so concurrent uploads cannot lose references.
	AttachContent(ctx context.Context, courseID primitive.ObjectID, field CourseContentField, contentID primitive.ObjectID) error
	DetachContent(ctx context.Context, courseID primitive.ObjectID, field CourseContentField, contentID primitive.ObjectID) error
}

// VideoRepository persists lecture video metadata.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)
	List(ctx context.Context) ([]domain.Video, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Video, error)
	Update(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// NoteRepository persists study note metadata.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Note, error)
	List(ctx context.Context) ([]domain.Note, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// QuizRepository persists quizzes.
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Quiz, error)
	List(ctx context.Context) ([]domain.Quiz, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Quiz, error)
	Update(ctx context.Context, quiz *domain.Quiz) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// QuizSubmissionRepository stores raw submitted scores for reporting.
type QuizSubmissionRepository interface {
	Create(ctx context.Context, sub *domain.QuizSubmission) (primitive.ObjectID, error)
	List(ctx context.Context) ([]domain.QuizSubmission, error)
}

// PaymentRepository persists the payment state machine. MarkApproved and
// MarkRejected only match Pending records, so a terminal status can never be
// overwritten; callers get ErrNotFound when no Pending record matches.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error)
	// ExistsActive reports whether a Pending or Approved payment exists for
	// the pair; used to refuse duplicate payment records.
	ExistsActive(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error)
	// HasApproved is the content-access gate query.
	HasApproved(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error)
	MarkApproved(ctx context.Context, id, adminID primitive.ObjectID) (*domain.Payment, error)
	MarkRejected(ctx context.Context, id primitive.ObjectID, reason string) (*domain.Payment, error)
	ListAll(ctx context.Context) ([]domain.Payment, error)
	ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error)
}

// ProgressRepository persists per-(user, course) progress documents. All
// mutations are expressed as single atomic updates (upsert + $addToSet/$set,
// size-guarded $push) so concurrent requests cannot lose writes.
type ProgressRepository interface {
	Get(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error)
	AddVideoWatched(ctx context.Context, userID, courseID, videoID primitive.ObjectID) (*domain.UserProgress, error)
	SetNotesViewed(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error)
	SetAssignmentSubmitted(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error)
	SetCertificateGenerated(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error)
	// AppendQuizAttempt records the attempt only if the document still holds
	// exactly priorCount attempts; returns ErrStale when the guard fails.
	AppendQuizAttempt(ctx context.Context, userID, courseID primitive.ObjectID, attempt domain.QuizAttempt, priorCount int) (*domain.UserProgress, error)
}

// ReviewRepository persists course reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error)
	List(ctx context.Context) ([]domain.Review, error)
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Review, error)
	SetAdminReply(ctx context.Context, id primitive.ObjectID, reply string) (*domain.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

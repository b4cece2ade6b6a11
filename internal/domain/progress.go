package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxQuizAttempts caps quizAttempts per (user, course). Attempts past the cap
// are not recorded; the caller gets a saturated response instead of an error.
const MaxQuizAttempts = 2

// QuizPassScore is the minimum score (out of 100) to pass a quiz attempt.
const QuizPassScore = 70

// QuizAttempt is one recorded quiz try.
type QuizAttempt struct {
	AttemptNumber int       `bson:"attemptNumber" json:"attemptNumber"`
	Score         int       `bson:"score" json:"score"`
	SubmittedAt   time.Time `bson:"submittedAt" json:"submittedAt"`
}

// UserProgress tracks content consumption for one user in one course.
// Exactly one document exists per (userId, courseId); it is created lazily on
// the first progress-mutating call, never on read.
type UserProgress struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	CourseID primitive.ObjectID `bson:"courseId" json:"courseId"`

	VideosWatched        []primitive.ObjectID `bson:"videosWatched,omitempty" json:"videosWatched"`
	NotesViewed          bool                 `bson:"notesViewed" json:"notesViewed"`
	AssignmentSubmitted  bool                 `bson:"assignmentSubmitted" json:"assignmentSubmitted"`
	QuizAttempts         []QuizAttempt        `bson:"quizAttempts,omitempty" json:"quizAttempts"`
	CertificateGenerated bool                 `bson:"certificateGenerated" json:"certificateGenerated"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RemainingAttempts returns how many quiz attempts are left.
func (p *UserProgress) RemainingAttempts() int {
	n := MaxQuizAttempts - len(p.QuizAttempts)
	if n < 0 {
		return 0
	}
	return n
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuizOption is one answer choice for a question.
type QuizOption struct {
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"isCorrect" json:"isCorrect"`
}

// QuizQuestion holds an ordered list of options. Every question must have at
// least two options and at least one marked correct; this is enforced when
// the quiz is created or updated, not at read time.
type QuizQuestion struct {
	Text    string       `bson:"text" json:"text"`
	Options []QuizOption `bson:"options" json:"options"`
}

// Quiz is an assessment attached to a course.
type Quiz struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID  primitive.ObjectID `bson:"courseId" json:"courseId"`
	Title     string             `bson:"title" json:"title"`
	Questions []QuizQuestion     `bson:"questions" json:"questions"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// QuizSubmission is a raw submitted score record, kept separately from the
// per-course progress document for admin reporting.
type QuizSubmission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	CourseID    primitive.ObjectID `bson:"courseId" json:"courseId"`
	QuizTitle   string             `bson:"quizTitle,omitempty" json:"quizTitle,omitempty"`
	Score       int                `bson:"score" json:"score"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
}

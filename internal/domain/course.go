package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is the catalog root. The content ID arrays are maintained by the
// catalog services when videos/notes/quizzes are created or deleted.
type Course struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	VideoIDs []primitive.ObjectID `bson:"videoIds,omitempty" json:"videoIds,omitempty"`
	NoteIDs  []primitive.ObjectID `bson:"noteIds,omitempty" json:"noteIds,omitempty"`
	QuizIDs  []primitive.ObjectID `bson:"quizIds,omitempty" json:"quizIds,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

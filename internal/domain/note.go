package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a downloadable study document (PDF, slides) attached to a course.
type Note struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID primitive.ObjectID `bson:"courseId" json:"courseId"`
	Title    string             `bson:"title" json:"title"`

	FileName    string `bson:"fileName" json:"fileName"`
	ObjectKey   string `bson:"objectKey" json:"-"`
	URL         string `bson:"url" json:"url"`
	Size        int64  `bson:"size" json:"size"`
	ContentType string `bson:"contentType" json:"contentType"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

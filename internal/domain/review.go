package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is an unmoderated course review. AdminReply is the optional answer an
// admin can attach.
type Review struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	CourseID primitive.ObjectID `bson:"courseId" json:"courseId"`

	Rating     int    `bson:"rating" json:"rating"` // 1..5
	Text       string `bson:"text,omitempty" json:"text,omitempty"`
	AdminReply string `bson:"adminReply,omitempty" json:"adminReply,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

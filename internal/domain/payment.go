package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus type for the payment lifecycle.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentApproved PaymentStatus = "Approved"
	PaymentRejected PaymentStatus = "Rejected"
)

// Payment gates content access: one Approved record for a (user, course) pair
// unlocks the progress workflow. Transitions are Pending -> Approved or
// Pending -> Rejected, terminal on either.
type Payment struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	CourseID primitive.ObjectID `bson:"courseId" json:"courseId"`
	Amount   int64              `bson:"amount" json:"amount"` // Whole currency units (INR)

	OrderID    string        `bson:"orderId,omitempty" json:"orderId,omitempty"`       // Gateway order id
	PaymentRef string        `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"` // Gateway payment/transaction id
	Status     PaymentStatus `bson:"status" json:"status"`
	Reason     string        `bson:"reason,omitempty" json:"reason,omitempty"` // Set on rejection

	ApprovedAt *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	ApprovedBy *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p *Payment) IsApproved() bool {
	return p.Status == PaymentApproved
}

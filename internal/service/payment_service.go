package service

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/gateway"
	"clinigoal/backend/internal/repository"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentExists       = errors.New("an active payment already exists for this course")
	ErrPaymentNotPending   = errors.New("payment is not in a pending state")
	ErrInvalidAmount       = errors.New("payment amount must be positive")
	ErrPaymentNotApproved  = errors.New("course payment has not been approved")
	ErrRejectReasonMissing = errors.New("rejection reason cannot be empty")
)

// PaymentService owns the purchase flow: a gateway order is created for the
// checkout widget, the learner's completed payment is recorded as Pending,
// and an admin later approves or rejects it. Approval is what unlocks the
// course content.
type PaymentService interface {
	CreateOrder(ctx context.Context, amount int64) (orderID string, err error)
	RecordPayment(ctx context.Context, userID, courseID primitive.ObjectID, amount int64, orderID, paymentRef string) (*domain.Payment, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error)
	ListAll(ctx context.Context) ([]domain.Payment, error)
	ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error)
	Approve(ctx context.Context, id, adminID primitive.ObjectID) (*domain.Payment, error)
	Reject(ctx context.Context, id primitive.ObjectID, reason string) (*domain.Payment, error)
	// HasApproved reports whether the user holds an approved payment for the
	// course. The progress service uses this as its access gate.
	HasApproved(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	courseRepo  repository.CourseRepository
	gateway     gateway.PaymentGateway
}

func NewPaymentService(paymentRepo repository.PaymentRepository, courseRepo repository.CourseRepository, gw gateway.PaymentGateway) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		courseRepo:  courseRepo,
		gateway:     gw,
	}
}

// CreateOrder asks the gateway for an order the frontend checkout can open.
func (s *paymentService) CreateOrder(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	receipt := "rcpt_" + uuid.NewString()
	orderID, err := s.gateway.CreateOrder(ctx, amount, "INR", receipt)
	if err != nil {
		return "", fmt.Errorf("creating gateway order: %w", err)
	}
	return orderID, nil
}

// RecordPayment stores a completed checkout as a Pending payment awaiting
// admin review. A user may hold at most one Pending or Approved payment per
// course; a Rejected one does not block a retry.
func (s *paymentService) RecordPayment(ctx context.Context, userID, courseID primitive.ObjectID, amount int64, orderID, paymentRef string) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	exists, err := s.paymentRepo.ExistsActive(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPaymentExists
	}

	payment := &domain.Payment{
		UserID:     userID,
		CourseID:   courseID,
		Amount:     amount,
		OrderID:    orderID,
		PaymentRef: paymentRef,
		Status:     domain.PaymentPending,
	}
	id, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}
	payment.ID = id
	return payment, nil
}

func (s *paymentService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ListAll(ctx context.Context) ([]domain.Payment, error) {
	return s.paymentRepo.ListAll(ctx)
}

func (s *paymentService) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
	return s.paymentRepo.ListByStatus(ctx, status)
}

// Approve moves a Pending payment to Approved. The repository update only
// matches Pending records, so the second of two racing decisions loses; we
// then look the record up to tell "no such payment" apart from "already
// decided".
func (s *paymentService) Approve(ctx context.Context, id, adminID primitive.ObjectID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.MarkApproved(ctx, id, adminID)
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return nil, s.classifyTransitionFailure(ctx, id)
}

func (s *paymentService) Reject(ctx context.Context, id primitive.ObjectID, reason string) (*domain.Payment, error) {
	if reason == "" {
		return nil, ErrRejectReasonMissing
	}
	payment, err := s.paymentRepo.MarkRejected(ctx, id, reason)
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return nil, s.classifyTransitionFailure(ctx, id)
}

func (s *paymentService) classifyTransitionFailure(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.paymentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}
	return ErrPaymentNotPending
}

func (s *paymentService) HasApproved(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	return s.paymentRepo.HasApproved(ctx, userID, courseID)
}

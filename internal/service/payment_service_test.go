package service

import (
	"clinigoal/backend/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestPaymentSetup(t *testing.T) (PaymentService, *fakePaymentRepo, *fakeGateway, primitive.ObjectID) {
	t.Helper()
	paymentRepo := newFakePaymentRepo()
	courseRepo := newFakeCourseRepo()
	gw := &fakeGateway{}
	courseID, err := courseRepo.Create(context.Background(), &domain.Course{Name: "Clinical Research 101"})
	require.NoError(t, err)
	return NewPaymentService(paymentRepo, courseRepo, gw), paymentRepo, gw, courseID
}

func TestCreateOrder(t *testing.T) {
	svc, _, gw, _ := newTestPaymentSetup(t)

	orderID, err := svc.CreateOrder(context.Background(), 4999)
	require.NoError(t, err)
	assert.Equal(t, "order_test123", orderID)
	require.Len(t, gw.orders, 1)
	assert.Equal(t, int64(4999), gw.orders[0])

	_, err = svc.CreateOrder(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecordPaymentStartsPending(t *testing.T) {
	svc, _, _, courseID := newTestPaymentSetup(t)
	userID := primitive.NewObjectID()

	payment, err := svc.RecordPayment(context.Background(), userID, courseID, 4999, "order_test123", "pay_abc")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.False(t, payment.IsApproved())
}

func TestRecordPaymentDuplicateConflict(t *testing.T) {
	svc, _, _, courseID := newTestPaymentSetup(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	first, err := svc.RecordPayment(ctx, userID, courseID, 4999, "o1", "p1")
	require.NoError(t, err)

	// A second record while the first is Pending conflicts.
	_, err = svc.RecordPayment(ctx, userID, courseID, 4999, "o2", "p2")
	assert.ErrorIs(t, err, ErrPaymentExists)

	// Still blocked after approval.
	_, err = svc.Approve(ctx, first.ID, primitive.NewObjectID())
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, userID, courseID, 4999, "o3", "p3")
	assert.ErrorIs(t, err, ErrPaymentExists)
}

func TestRecordPaymentRetryAfterRejection(t *testing.T) {
	svc, _, _, courseID := newTestPaymentSetup(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	first, err := svc.RecordPayment(ctx, userID, courseID, 4999, "o1", "p1")
	require.NoError(t, err)
	_, err = svc.Reject(ctx, first.ID, "reference did not match")
	require.NoError(t, err)

	// A rejected payment does not block a fresh attempt.
	_, err = svc.RecordPayment(ctx, userID, courseID, 4999, "o2", "p2")
	assert.NoError(t, err)
}

func TestApprovePayment(t *testing.T) {
	svc, _, _, courseID := newTestPaymentSetup(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()

	payment, err := svc.RecordPayment(ctx, userID, courseID, 4999, "o1", "p1")
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, payment.ID, adminID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, adminID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	ok, err := svc.HasApproved(ctx, userID, courseID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecisionOnTerminalPayment(t *testing.T) {
	svc, _, _, courseID := newTestPaymentSetup(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()

	payment, err := svc.RecordPayment(ctx, userID, courseID, 4999, "o1", "p1")
	require.NoError(t, err)
	_, err = svc.Reject(ctx, payment.ID, "duplicate reference")
	require.NoError(t, err)

	// Rejected is terminal: neither approving nor re-rejecting succeeds.
	_, err = svc.Approve(ctx, payment.ID, adminID)
	assert.ErrorIs(t, err, ErrPaymentNotPending)
	_, err = svc.Reject(ctx, payment.ID, "again")
	assert.ErrorIs(t, err, ErrPaymentNotPending)

	// And the record keeps its rejection.
	got, err := svc.GetByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRejected, got.Status)
	assert.Equal(t, "duplicate reference", got.Reason)
}

func TestDecisionOnMissingPayment(t *testing.T) {
	svc, _, _, _ := newTestPaymentSetup(t)

	_, err := svc.Approve(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _, _, courseID := newTestPaymentSetup(t)
	ctx := context.Background()

	payment, err := svc.RecordPayment(ctx, primitive.NewObjectID(), courseID, 4999, "o1", "p1")
	require.NoError(t, err)

	_, err = svc.Reject(ctx, payment.ID, "")
	assert.ErrorIs(t, err, ErrRejectReasonMissing)
}

func TestListByStatus(t *testing.T) {
	svc, _, _, courseID := newTestPaymentSetup(t)
	ctx := context.Background()

	p1, err := svc.RecordPayment(ctx, primitive.NewObjectID(), courseID, 4999, "o1", "p1")
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, primitive.NewObjectID(), courseID, 4999, "o2", "p2")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, p1.ID, primitive.NewObjectID())
	require.NoError(t, err)

	pending, err := svc.ListByStatus(ctx, domain.PaymentPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

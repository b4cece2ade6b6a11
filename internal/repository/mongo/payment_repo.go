package mongo

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const paymentCollectionName = "payments"

type mongoPaymentRepository struct {
	collection *mongo.Collection
}

// NewMongoPaymentRepository creates a new payment repository backed by MongoDB.
func NewMongoPaymentRepository(db *mongo.Database) repository.PaymentRepository {
	return &mongoPaymentRepository{
		collection: db.Collection(paymentCollectionName),
	}
}

func (r *mongoPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	if payment.UserID == primitive.NilObjectID || payment.CourseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("payment user ID and course ID are required")
	}

	payment.ID = primitive.NewObjectID()
	if payment.Status == "" {
		payment.Status = domain.PaymentPending
	}
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoPaymentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// ExistsActive reports whether the pair already has a Pending or Approved
// payment record.
func (r *mongoPaymentRepository) ExistsActive(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"userId":   userID,
		"courseId": courseID,
		"status":   bson.M{"$in": []domain.PaymentStatus{domain.PaymentPending, domain.PaymentApproved}},
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasApproved is the access-control gate: one Approved record for the pair
// unlocks progress mutations.
func (r *mongoPaymentRepository) HasApproved(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"userId":   userID,
		"courseId": courseID,
		"status":   domain.PaymentApproved,
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkApproved flips a Pending payment to Approved, stamping time and actor.
// The status filter makes the transition atomic: a record that is already
// Approved or Rejected never matches, so terminal states cannot be rewritten.
func (r *mongoPaymentRepository) MarkApproved(ctx context.Context, id, adminID primitive.ObjectID) (*domain.Payment, error) {
	now := time.Now().UTC()
	filter := bson.M{"_id": id, "status": domain.PaymentPending}
	update := bson.M{
		"$set": bson.M{
			"status":     domain.PaymentApproved,
			"approvedAt": now,
			"approvedBy": adminID,
			"updatedAt":  now,
		},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

// MarkRejected flips a Pending payment to Rejected and stores the reason.
func (r *mongoPaymentRepository) MarkRejected(ctx context.Context, id primitive.ObjectID, reason string) (*domain.Payment, error) {
	filter := bson.M{"_id": id, "status": domain.PaymentPending}
	update := bson.M{
		"$set": bson.M{
			"status":    domain.PaymentRejected,
			"reason":    reason,
			"updatedAt": time.Now().UTC(),
		},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *mongoPaymentRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Payment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var payment domain.Payment
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *mongoPaymentRepository) ListAll(ctx context.Context) ([]domain.Payment, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoPaymentRepository) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *mongoPaymentRepository) find(ctx context.Context, filter bson.M) ([]domain.Payment, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payments := []domain.Payment{}
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// EnsurePaymentIndexes creates indexes for the payments collection.
func EnsurePaymentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "courseId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

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

const progressCollectionName = "user_progress"

// mongoProgressRepository implements repository.ProgressRepository. Every
// mutation is a single upserting FindOneAndUpdate, so concurrent requests for
// the same (user, course) pair cannot lose writes the way a load-mutate-save
// cycle would.
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new progress repository backed by MongoDB.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Get returns the progress document for the pair, ErrNotFound if none exists.
// Reads never create the document.
func (r *mongoProgressRepository) Get(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	var progress domain.UserProgress
	filter := bson.M{"userId": userID, "courseId": courseID}

	err := r.collection.FindOne(ctx, filter).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// AddVideoWatched adds the video to the watched set. $addToSet makes re-adds
// a no-op; the upsert creates the document on first use.
func (r *mongoProgressRepository) AddVideoWatched(ctx context.Context, userID, courseID, videoID primitive.ObjectID) (*domain.UserProgress, error) {
	update := bson.M{
		"$addToSet": bson.M{"videosWatched": videoID},
	}
	return r.upsert(ctx, userID, courseID, update)
}

func (r *mongoProgressRepository) SetNotesViewed(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	update := bson.M{
		"$set": bson.M{"notesViewed": true},
	}
	return r.upsert(ctx, userID, courseID, update)
}

func (r *mongoProgressRepository) SetAssignmentSubmitted(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	update := bson.M{
		"$set": bson.M{"assignmentSubmitted": true},
	}
	return r.upsert(ctx, userID, courseID, update)
}

func (r *mongoProgressRepository) SetCertificateGenerated(ctx context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	update := bson.M{
		"$set": bson.M{"certificateGenerated": true},
	}
	return r.upsert(ctx, userID, courseID, update)
}

// AppendQuizAttempt pushes the attempt only while the array still holds
// exactly priorCount entries. A concurrent attempt in between invalidates the
// $size guard; the failed upsert then trips the unique (userId, courseId)
// index and is reported as ErrStale instead of silently recording a third
// attempt.
func (r *mongoProgressRepository) AppendQuizAttempt(ctx context.Context, userID, courseID primitive.ObjectID, attempt domain.QuizAttempt, priorCount int) (*domain.UserProgress, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"userId":   userID,
		"courseId": courseID,
	}
	if priorCount > 0 {
		filter["quizAttempts"] = bson.M{"$size": priorCount}
	} else {
		// Matches both a missing array and an empty one, and still allows
		// the upsert path when no document exists yet.
		filter["quizAttempts.0"] = bson.M{"$exists": false}
	}
	update := bson.M{
		"$push": bson.M{"quizAttempts": attempt},
		"$set":  bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var progress domain.UserProgress
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&progress)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrStale
		}
		return nil, err
	}
	return &progress, nil
}

func (r *mongoProgressRepository) upsert(ctx context.Context, userID, courseID primitive.ObjectID, update bson.M) (*domain.UserProgress, error) {
	now := time.Now().UTC()
	filter := bson.M{"userId": userID, "courseId": courseID}

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = now
	update["$set"] = set
	update["$setOnInsert"] = bson.M{"createdAt": now}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var progress domain.UserProgress
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&progress)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// EnsureProgressIndexes creates the unique (userId, courseId) index that both
// enforces one document per pair and backs the stale-guard in
// AppendQuizAttempt.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "courseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

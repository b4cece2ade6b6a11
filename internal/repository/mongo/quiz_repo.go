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

const (
	quizCollectionName           = "quizzes"
	quizSubmissionCollectionName = "quiz_submissions"
)

type mongoQuizRepository struct {
	collection *mongo.Collection
}

// NewMongoQuizRepository creates a new quiz repository backed by MongoDB.
func NewMongoQuizRepository(db *mongo.Database) repository.QuizRepository {
	return &mongoQuizRepository{
		collection: db.Collection(quizCollectionName),
	}
}

func (r *mongoQuizRepository) Create(ctx context.Context, quiz *domain.Quiz) (primitive.ObjectID, error) {
	if quiz.Title == "" || quiz.CourseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("quiz title and course ID are required")
	}

	quiz.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, quiz)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoQuizRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *mongoQuizRepository) List(ctx context.Context) ([]domain.Quiz, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoQuizRepository) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Quiz, error) {
	return r.find(ctx, bson.M{"courseId": courseID})
}

func (r *mongoQuizRepository) find(ctx context.Context, filter bson.M) ([]domain.Quiz, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	quizzes := []domain.Quiz{}
	if err = cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *mongoQuizRepository) Update(ctx context.Context, quiz *domain.Quiz) error {
	filter := bson.M{"_id": quiz.ID}
	update := bson.M{
		"$set": bson.M{
			"title":     quiz.Title,
			"courseId":  quiz.CourseID,
			"questions": quiz.Questions,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoQuizRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureQuizIndexes creates indexes for the quizzes collection.
func EnsureQuizIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "courseId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// --- Quiz submissions ---

type mongoQuizSubmissionRepository struct {
	collection *mongo.Collection
}

// NewMongoQuizSubmissionRepository creates a submission log repository.
func NewMongoQuizSubmissionRepository(db *mongo.Database) repository.QuizSubmissionRepository {
	return &mongoQuizSubmissionRepository{
		collection: db.Collection(quizSubmissionCollectionName),
	}
}

func (r *mongoQuizSubmissionRepository) Create(ctx context.Context, sub *domain.QuizSubmission) (primitive.ObjectID, error) {
	if sub.UserID == primitive.NilObjectID || sub.CourseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("submission user ID and course ID are required")
	}

	sub.ID = primitive.NewObjectID()
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoQuizSubmissionRepository) List(ctx context.Context) ([]domain.QuizSubmission, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []domain.QuizSubmission{}
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

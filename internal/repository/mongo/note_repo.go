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

const noteCollectionName = "notes"

type mongoNoteRepository struct {
	collection *mongo.Collection
}

// NewMongoNoteRepository creates a new note repository backed by MongoDB.
func NewMongoNoteRepository(db *mongo.Database) repository.NoteRepository {
	return &mongoNoteRepository{
		collection: db.Collection(noteCollectionName),
	}
}

func (r *mongoNoteRepository) Create(ctx context.Context, note *domain.Note) (primitive.ObjectID, error) {
	if note.Title == "" || note.CourseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("note title and course ID are required")
	}

	note.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, note)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoNoteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Note, error) {
	var note domain.Note
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *mongoNoteRepository) List(ctx context.Context) ([]domain.Note, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoNoteRepository) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Note, error) {
	return r.find(ctx, bson.M{"courseId": courseID})
}

func (r *mongoNoteRepository) find(ctx context.Context, filter bson.M) ([]domain.Note, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := []domain.Note{}
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *mongoNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	filter := bson.M{"_id": note.ID}
	update := bson.M{
		"$set": bson.M{
			"title":     note.Title,
			"courseId":  note.CourseID,
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

func (r *mongoNoteRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureNoteIndexes creates indexes for the notes collection.
func EnsureNoteIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "courseId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

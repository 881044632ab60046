package db

import (
	"context"
	"time"

	"psetu-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProgramRepository struct {
	collection *mongo.Collection
}

func NewProgramRepository(database *mongo.Database) *ProgramRepository {
	return &ProgramRepository{collection: database.Collection(ProgramCollection)}
}

func (r *ProgramRepository) Insert(ctx context.Context, program *models.DonationProgram) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	if program.ID.IsZero() {
		program.ID = primitive.NewObjectID()
	}
	program.CreatedAt = now
	program.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, program)
	return translate(err, "insert donation program")
}

// List returns every program, newest first.
func (r *ProgramRepository) List(ctx context.Context) ([]models.DonationProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translate(err, "find donation programs")
	}
	defer cursor.Close(ctx)

	programs := make([]models.DonationProgram, 0)
	if err := cursor.All(ctx, &programs); err != nil {
		return nil, translate(err, "decode donation programs")
	}
	return programs, nil
}

func (r *ProgramRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DonationProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var program models.DonationProgram
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		return nil, translate(err, "find donation program")
	}
	return &program, nil
}

func (r *ProgramRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, translate(err, "count donation programs")
	}
	return n, nil
}

package db

import (
	"context"
	"time"

	"psetu-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ContactRepository is write-only; nothing reads contact messages back through the API.
type ContactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(database *mongo.Database) *ContactRepository {
	return &ContactRepository{collection: database.Collection(ContactCollection)}
}

func (r *ContactRepository) Insert(ctx context.Context, contact *models.Contact) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	contact.CreatedAt = now
	contact.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, contact)
	return translate(err, "insert contact")
}

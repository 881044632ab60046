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

const pendingBatchSize = 100

type TransactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(database *mongo.Database) *TransactionRepository {
	return &TransactionRepository{collection: database.Collection(TransactionCollection)}
}

// Insert always stores the transaction as PENDING.
func (r *TransactionRepository) Insert(ctx context.Context, tx *models.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	tx.Status = models.StatusPending
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, tx)
	return translate(err, "insert transaction")
}

// FindLatest matches either the gateway transaction uuid or the program id and
// returns the most recent document.
func (r *TransactionRepository) FindLatest(ctx context.Context, id string) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"transaction_uuid": id},
		{"product_id": id},
	}}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var tx models.Transaction
	err := r.collection.FindOne(ctx, filter, opts).Decode(&tx)
	if err != nil {
		return nil, translate(err, "find transaction")
	}
	return &tx, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TransactionStatus, refID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}
	if refID != "" {
		set["ref_id"] = refID
	}

	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return translate(err, "update transaction status")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPendingBefore returns PENDING transactions created and last touched
// before the cutoff, least recently checked first.
func (r *TransactionRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter := bson.M{
		"status":    models.StatusPending,
		"createdAt": bson.M{"$lt": cutoff},
		"updatedAt": bson.M{"$lt": cutoff},
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}}).SetLimit(pendingBatchSize)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, "find pending transactions")
	}
	defer cursor.Close(ctx)

	txs := make([]models.Transaction, 0)
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, translate(err, "decode pending transactions")
	}
	return txs, nil
}

// Touch bumps updatedAt so a transaction whose check failed moves to the back
// of the pending queue.
func (r *TransactionRepository) Touch(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}})
	if err != nil {
		return translate(err, "touch transaction")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

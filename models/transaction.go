package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	StatusRefunded  TransactionStatus = "REFUNDED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// Transaction tracks one eSewa payment attempt.
type Transaction struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ProductID       string             `json:"product_id" bson:"product_id"`             // donation program, not enforced
	TransactionUUID string             `json:"transaction_uuid" bson:"transaction_uuid"` // id sent to eSewa
	Amount          float64            `json:"amount" bson:"amount"`
	Status          TransactionStatus  `json:"status" bson:"status"`
	RefID           string             `json:"ref_id,omitempty" bson:"ref_id,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// GatewayID is the identifier eSewa knows this transaction by.
// Older documents only carried product_id.
func (t Transaction) GatewayID() string {
	if t.TransactionUUID != "" {
		return t.TransactionUUID
	}
	return t.ProductID
}

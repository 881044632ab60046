package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultProgramCategory = "General"
	DefaultProgramLocation = "Unknown"
)

// DonationProgram is a fundraising campaign created by an admin.
// CollectedAmount and Donors start at zero and are not updated by any payment path.
type DonationProgram struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	GoalAmount      float64            `json:"goalAmount" bson:"goalAmount"`
	CollectedAmount float64            `json:"collectedAmount" bson:"collectedAmount"`
	Donors          int                `json:"donors" bson:"donors"`
	ImageURL        string             `json:"imageUrl" bson:"imageUrl"`
	Category        string             `json:"category" bson:"category"`
	Location        string             `json:"location" bson:"location"`
	Urgent          bool               `json:"urgent" bson:"urgent"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

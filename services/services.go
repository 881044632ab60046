package services

import (
	"context"
	"errors"
	"io"
	"time"

	"psetu-backend/esewa"
	"psetu-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrPasswordTooLong     = errors.New("password longer than 72 bytes")
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidID           = errors.New("invalid id")
	ErrProgramNotFound     = errors.New("donation program not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUploadsDisabled     = errors.New("image uploads are not configured")
	ErrUnsupportedImage    = errors.New("unsupported image type")
	ErrInvalidPayment      = errors.New("invalid payment request")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidCallback     = errors.New("invalid payment callback")
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}

type ContactStore interface {
	Insert(ctx context.Context, contact *models.Contact) error
}

type ProgramStore interface {
	Insert(ctx context.Context, program *models.DonationProgram) error
	List(ctx context.Context) ([]models.DonationProgram, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DonationProgram, error)
	Count(ctx context.Context) (int64, error)
}

type TransactionStore interface {
	Insert(ctx context.Context, tx *models.Transaction) error
	FindLatest(ctx context.Context, id string) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TransactionStatus, refID string) error
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Transaction, error)
	Touch(ctx context.Context, id primitive.ObjectID) error
}

// PaymentGateway is implemented by *esewa.Client.
type PaymentGateway interface {
	Initiate(ctx context.Context, req esewa.PaymentRequest) (*esewa.InitiateResult, error)
	CheckStatus(ctx context.Context, totalAmount float64, transactionUUID string) (*esewa.StatusResponse, error)
	VerifyCallback(data string) (*esewa.Callback, error)
}

type ContactNotifier interface {
	NotifyContact(contact models.Contact) error
}

type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader, contentType, folder string) (string, error)
}

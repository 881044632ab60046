package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"psetu-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestUserRepository(t *testing.T) {
	mt := newMockT(t)

	mt.Run("find by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "psetu.register", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "firstName", Value: "Sita"},
			{Key: "lastName", Value: "Rai"},
			{Key: "email", Value: "sita@example.com"},
			{Key: "password", Value: "$2a$10$hash"},
		}))

		user, err := NewUserRepository(mt.DB).FindByEmail(context.Background(), "sita@example.com")
		if err != nil {
			mt.Fatalf("find by email: %v", err)
		}
		if user.ID != id || user.FirstName != "Sita" || user.Password != "$2a$10$hash" {
			mt.Fatalf("unexpected user %+v", user)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "psetu.register", mtest.FirstBatch))

		_, err := NewUserRepository(mt.DB).FindByEmail(context.Background(), "nobody@example.com")
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound got %v", err)
		}
	})

	mt.Run("insert sets id and timestamp", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{FirstName: "Sita", LastName: "Rai", Email: "sita@example.com"}
		if err := NewUserRepository(mt.DB).Insert(context.Background(), user); err != nil {
			mt.Fatalf("insert: %v", err)
		}
		if user.ID.IsZero() || user.CreatedAt.IsZero() {
			mt.Fatalf("expected id and createdAt to be set: %+v", user)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: psetu.register index: email_1",
		}))

		err := NewUserRepository(mt.DB).Insert(context.Background(), &models.User{Email: "sita@example.com"})
		if !errors.Is(err, ErrDuplicate) {
			mt.Fatalf("expected ErrDuplicate got %v", err)
		}
	})
}

func TestProgramRepository(t *testing.T) {
	mt := newMockT(t)

	mt.Run("list", func(mt *mtest.T) {
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "psetu.donationprograms", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "title", Value: "Hearing aids"}, {Key: "goalAmount", Value: 5000.0}},
			bson.D{{Key: "_id", Value: second}, {Key: "title", Value: "Sign classes"}, {Key: "goalAmount", Value: 1000.0}},
		))

		programs, err := NewProgramRepository(mt.DB).List(context.Background())
		if err != nil {
			mt.Fatalf("list: %v", err)
		}
		if len(programs) != 2 || programs[0].ID != first || programs[1].GoalAmount != 1000 {
			mt.Fatalf("unexpected programs %+v", programs)
		}
	})

	mt.Run("list empty is not nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "psetu.donationprograms", mtest.FirstBatch))

		programs, err := NewProgramRepository(mt.DB).List(context.Background())
		if err != nil {
			mt.Fatalf("list: %v", err)
		}
		if programs == nil || len(programs) != 0 {
			mt.Fatalf("expected empty slice got %#v", programs)
		}
	})

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "psetu.donationprograms", mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}},
		))

		n, err := NewProgramRepository(mt.DB).Count(context.Background())
		if err != nil {
			mt.Fatalf("count: %v", err)
		}
		if n != 3 {
			mt.Fatalf("expected 3 got %d", n)
		}
	})
}

func TestTransactionRepository(t *testing.T) {
	mt := newMockT(t)

	mt.Run("insert forces pending", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		tx := &models.Transaction{ProductID: "prog", TransactionUUID: "uuid", Amount: 100, Status: models.StatusCompleted}
		if err := NewTransactionRepository(mt.DB).Insert(context.Background(), tx); err != nil {
			mt.Fatalf("insert: %v", err)
		}
		if tx.Status != models.StatusPending {
			mt.Fatalf("expected PENDING got %s", tx.Status)
		}
	})

	mt.Run("find latest", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "psetu.transactions", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "product_id", Value: "prog"},
			{Key: "transaction_uuid", Value: "uuid"},
			{Key: "amount", Value: 250.0},
			{Key: "status", Value: "PENDING"},
			{Key: "createdAt", Value: primitive.NewDateTimeFromTime(time.Now())},
		}))

		tx, err := NewTransactionRepository(mt.DB).FindLatest(context.Background(), "uuid")
		if err != nil {
			mt.Fatalf("find latest: %v", err)
		}
		if tx.ID != id || tx.Amount != 250 || tx.Status != models.StatusPending {
			mt.Fatalf("unexpected transaction %+v", tx)
		}
	})

	mt.Run("update status", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := NewTransactionRepository(mt.DB).UpdateStatus(context.Background(), primitive.NewObjectID(), models.StatusCompleted, "REF1")
		if err != nil {
			mt.Fatalf("update status: %v", err)
		}
	})

	mt.Run("update status unknown id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewTransactionRepository(mt.DB).UpdateStatus(context.Background(), primitive.NewObjectID(), models.StatusFailed, "")
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound got %v", err)
		}
	})

	mt.Run("list pending", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "psetu.transactions", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "transaction_uuid", Value: "a"}, {Key: "status", Value: "PENDING"}},
		))

		txs, err := NewTransactionRepository(mt.DB).ListPendingBefore(context.Background(), time.Now())
		if err != nil {
			mt.Fatalf("list pending: %v", err)
		}
		if len(txs) != 1 || txs[0].TransactionUUID != "a" {
			mt.Fatalf("unexpected transactions %+v", txs)
		}

		cmd := mt.GetStartedEvent().Command
		filter := cmd.Lookup("filter").Document()
		if _, err := filter.LookupErr("updatedAt"); err != nil {
			mt.Fatalf("pending filter must bound updatedAt: %s", filter)
		}
		sort := cmd.Lookup("sort").Document()
		if _, err := sort.LookupErr("updatedAt"); err != nil {
			mt.Fatalf("pending list must be ordered by updatedAt: %s", sort)
		}
	})

	mt.Run("touch", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		if err := NewTransactionRepository(mt.DB).Touch(context.Background(), primitive.NewObjectID()); err != nil {
			mt.Fatalf("touch: %v", err)
		}
	})

	mt.Run("touch unknown id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewTransactionRepository(mt.DB).Touch(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound got %v", err)
		}
	})
}

func TestContactRepositoryInsert(t *testing.T) {
	mt := newMockT(t)

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		contact := &models.Contact{FullName: "Hari", Email: "hari@example.com", Subject: "Hi", Category: "general", Message: "Hello"}
		if err := NewContactRepository(mt.DB).Insert(context.Background(), contact); err != nil {
			mt.Fatalf("insert: %v", err)
		}
		if contact.ID.IsZero() || contact.CreatedAt.IsZero() || !contact.CreatedAt.Equal(contact.UpdatedAt) {
			mt.Fatalf("expected id and timestamps to be set: %+v", contact)
		}
	})
}

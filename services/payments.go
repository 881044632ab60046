package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	db "psetu-backend/database"
	"psetu-backend/esewa"
	"psetu-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MinPaymentAmount is the smallest amount eSewa accepts, in NPR.
const MinPaymentAmount = 1

type PaymentService struct {
	transactions TransactionStore
	gateway      PaymentGateway
	logger       logrus.FieldLogger
	newID        func() string
}

func NewPaymentService(transactions TransactionStore, gateway PaymentGateway, logger logrus.FieldLogger) *PaymentService {
	return &PaymentService{
		transactions: transactions,
		gateway:      gateway,
		logger:       logger,
		newID:        uuid.NewString,
	}
}

// Initiate starts an eSewa payment for a donation program. The transaction is
// persisted only after the gateway accepted the request.
func (s *PaymentService) Initiate(ctx context.Context, amount float64, productID string) (*esewa.InitiateResult, error) {
	productID = strings.TrimSpace(productID)
	if amount < MinPaymentAmount || productID == "" {
		return nil, ErrInvalidPayment
	}

	transactionUUID := s.newID()
	entry := s.logger.WithFields(logrus.Fields{
		"product_id":       productID,
		"transaction_uuid": transactionUUID,
		"amount":           amount,
	})

	result, err := s.gateway.Initiate(ctx, esewa.PaymentRequest{
		Amount:          amount,
		TransactionUUID: transactionUUID,
	})
	if err != nil {
		entry.WithError(err).Error("esewa payment initiation failed")
		return nil, fmt.Errorf("initiate esewa payment: %w", err)
	}

	tx := &models.Transaction{
		ProductID:       productID,
		TransactionUUID: transactionUUID,
		Amount:          amount,
	}
	if err := s.transactions.Insert(ctx, tx); err != nil {
		entry.WithError(err).Error("failed to save transaction")
		return nil, fmt.Errorf("save transaction: %w", err)
	}

	entry.Info("payment initiated")
	return result, nil
}

// CheckStatus refreshes the newest transaction matching id from the gateway.
func (s *PaymentService) CheckStatus(ctx context.Context, id string) (models.TransactionStatus, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrTransactionNotFound
	}

	tx, err := s.transactions.FindLatest(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrTransactionNotFound
		}
		return "", fmt.Errorf("find transaction: %w", err)
	}

	return s.refresh(ctx, tx)
}

// HandleCallback verifies the token eSewa appends to success_url and then
// confirms the outcome with the status API.
func (s *PaymentService) HandleCallback(ctx context.Context, data string) (models.TransactionStatus, error) {
	cb, err := s.gateway.VerifyCallback(data)
	if err != nil {
		s.logger.WithError(err).Warn("rejected esewa callback")
		return "", fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}
	if cb.TransactionUUID == "" {
		return "", ErrInvalidCallback
	}

	return s.CheckStatus(ctx, cb.TransactionUUID)
}

// ReconcilePending re-checks PENDING transactions older than minAge and
// returns how many were refreshed. Failed checks are requeued behind the rest.
func (s *PaymentService) ReconcilePending(ctx context.Context, minAge time.Duration) (int, error) {
	pending, err := s.transactions.ListPendingBefore(ctx, time.Now().UTC().Add(-minAge))
	if err != nil {
		return 0, fmt.Errorf("list pending transactions: %w", err)
	}

	refreshed := 0
	for i := range pending {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		if _, err := s.refresh(ctx, &pending[i]); err != nil {
			entry := s.logger.WithError(err).WithField("transaction_uuid", pending[i].GatewayID())
			entry.Warn("reconcile transaction failed")
			if err := s.transactions.Touch(ctx, pending[i].ID); err != nil {
				entry.WithError(err).Warn("failed to requeue pending transaction")
			}
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

func (s *PaymentService) refresh(ctx context.Context, tx *models.Transaction) (models.TransactionStatus, error) {
	entry := s.logger.WithField("transaction_uuid", tx.GatewayID())

	resp, err := s.gateway.CheckStatus(ctx, tx.Amount, tx.GatewayID())
	if err != nil {
		entry.WithError(err).Error("esewa status check failed")
		return "", fmt.Errorf("check esewa status: %w", err)
	}

	status := esewa.MapStatus(resp.Status)
	if err := s.transactions.UpdateStatus(ctx, tx.ID, status, resp.RefID); err != nil {
		return "", fmt.Errorf("update transaction status: %w", err)
	}

	entry.WithFields(logrus.Fields{
		"gateway_status": resp.Status,
		"status":         status,
	}).Info("transaction status updated")
	return status, nil
}

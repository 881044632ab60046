// Package servicetest provides in-memory stores and gateways for tests.
package servicetest

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	db "psetu-backend/database"
	"psetu-backend/esewa"
	"psetu-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Users struct {
	mu    sync.Mutex
	users []models.User
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *Users) Insert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return db.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now().UTC()
	s.users = append(s.users, *user)
	return nil
}

func (s *Users) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type Contacts struct {
	mu       sync.Mutex
	contacts []models.Contact
	Err      error
}

func (s *Contacts) Insert(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	now := time.Now().UTC()
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	s.contacts = append(s.contacts, *contact)
	return nil
}

func (s *Contacts) All() []models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Contact(nil), s.contacts...)
}

type Programs struct {
	mu       sync.Mutex
	programs []models.DonationProgram
}

func (s *Programs) Insert(_ context.Context, program *models.DonationProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	program.ID = primitive.NewObjectID()
	program.CollectedAmount = 0
	program.Donors = 0
	program.CreatedAt = now
	program.UpdatedAt = now
	s.programs = append(s.programs, *program)
	return nil
}

func (s *Programs) List(_ context.Context) ([]models.DonationProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DonationProgram, 0, len(s.programs))
	for i := len(s.programs) - 1; i >= 0; i-- {
		out = append(out, s.programs[i])
	}
	return out, nil
}

func (s *Programs) FindByID(_ context.Context, id primitive.ObjectID) (*models.DonationProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.programs {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *Programs) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.programs)), nil
}

type Transactions struct {
	mu  sync.Mutex
	txs []models.Transaction

	Writes int
	// BatchSize caps ListPendingBefore like the Mongo query limit. Zero means no cap.
	BatchSize int
}

func (s *Transactions) Insert(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	tx.Status = models.StatusPending
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = tx.CreatedAt
	s.txs = append(s.txs, *tx)
	s.Writes++
	return nil
}

func (s *Transactions) FindLatest(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.Transaction
	for i := range s.txs {
		tx := s.txs[i]
		if tx.TransactionUUID != id && tx.ProductID != id {
			continue
		}
		if latest == nil || !tx.CreatedAt.Before(latest.CreatedAt) {
			latest = &tx
		}
	}
	if latest == nil {
		return nil, db.ErrNotFound
	}
	return latest, nil
}

func (s *Transactions) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.TransactionStatus, refID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID != id {
			continue
		}
		s.txs[i].Status = status
		if refID != "" {
			s.txs[i].RefID = refID
		}
		s.txs[i].UpdatedAt = time.Now().UTC()
		s.Writes++
		return nil
	}
	return db.ErrNotFound
}

func (s *Transactions) ListPendingBefore(_ context.Context, cutoff time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Transaction, 0)
	for _, tx := range s.txs {
		if tx.Status == models.StatusPending && tx.CreatedAt.Before(cutoff) && tx.UpdatedAt.Before(cutoff) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if len(out) > s.BatchSize && s.BatchSize > 0 {
		out = out[:s.BatchSize]
	}
	return out, nil
}

func (s *Transactions) Touch(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txs {
		if s.txs[i].ID == id {
			s.txs[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return db.ErrNotFound
}

func (s *Transactions) All() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction(nil), s.txs...)
}

var ErrGateway = errors.New("gateway unavailable")

// Gateway answers every status check with Status. InitiateErr and
// StatusErr force failures.
type Gateway struct {
	mu sync.Mutex

	Status      string
	RefID       string
	InitiateErr error
	StatusErr   error
	Callback    *esewa.Callback

	Initiated []esewa.PaymentRequest
	Checked   []string
}

func (g *Gateway) Initiate(_ context.Context, req esewa.PaymentRequest) (*esewa.InitiateResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.InitiateErr != nil {
		return nil, g.InitiateErr
	}
	g.Initiated = append(g.Initiated, req)
	return &esewa.InitiateResult{
		URL:  "https://rc-epay.esewa.com.np/api/epay/main/v2/form?uuid=" + req.TransactionUUID,
		Form: map[string]string{"transaction_uuid": req.TransactionUUID},
	}, nil
}

func (g *Gateway) CheckStatus(_ context.Context, totalAmount float64, transactionUUID string) (*esewa.StatusResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Checked = append(g.Checked, transactionUUID)
	if g.StatusErr != nil {
		return nil, g.StatusErr
	}
	return &esewa.StatusResponse{
		TransactionUUID: transactionUUID,
		TotalAmount:     totalAmount,
		Status:          g.Status,
		RefID:           g.RefID,
	}, nil
}

func (g *Gateway) VerifyCallback(data string) (*esewa.Callback, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Callback == nil || data == "" {
		return nil, esewa.ErrInvalidCallback
	}
	return g.Callback, nil
}

type Notifier struct {
	mu   sync.Mutex
	sent []models.Contact
	Err  error
}

func (n *Notifier) NotifyContact(contact models.Contact) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, contact)
	return n.Err
}

func (n *Notifier) Sent() []models.Contact {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Contact(nil), n.sent...)
}

type Uploader struct {
	Uploaded []string
	Err      error
}

func (u *Uploader) Upload(_ context.Context, r io.Reader, contentType, folder string) (string, error) {
	if u.Err != nil {
		return "", u.Err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	url := "https://storage.googleapis.com/test-bucket/" + folder + "/image"
	u.Uploaded = append(u.Uploaded, contentType)
	return url, nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"psetu-backend/models"

	"github.com/sirupsen/logrus"
)

type ContactService struct {
	contacts ContactStore
	notifier ContactNotifier
	logger   logrus.FieldLogger
	wg       sync.WaitGroup
}

// NewContactService accepts a nil notifier when mail is not configured.
func NewContactService(contacts ContactStore, notifier ContactNotifier, logger logrus.FieldLogger) *ContactService {
	return &ContactService{contacts: contacts, notifier: notifier, logger: logger}
}

type ContactInput struct {
	FullName string
	Email    string
	Subject  string
	Category string
	Message  string
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.Contact, error) {
	contact := &models.Contact{
		FullName: strings.TrimSpace(in.FullName),
		Email:    normalizeEmail(in.Email),
		Subject:  strings.TrimSpace(in.Subject),
		Category: strings.TrimSpace(in.Category),
		Message:  strings.TrimSpace(in.Message),
	}
	if contact.FullName == "" || contact.Email == "" || contact.Subject == "" ||
		contact.Category == "" || contact.Message == "" {
		return nil, ErrMissingFields
	}

	if err := s.contacts.Insert(ctx, contact); err != nil {
		return nil, fmt.Errorf("save contact: %w", err)
	}

	if s.notifier != nil {
		s.wg.Add(1)
		go func(c models.Contact) {
			defer s.wg.Done()
			if err := s.notifier.NotifyContact(c); err != nil {
				s.logger.WithError(err).WithField("contact_id", c.ID.Hex()).Warn("contact notification failed")
			}
		}(*contact)
	}

	return contact, nil
}

// Wait blocks until in-flight notifications finish.
func (s *ContactService) Wait() {
	s.wg.Wait()
}

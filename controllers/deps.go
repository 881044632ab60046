package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"psetu-backend/inference"
	"psetu-backend/services"

	"github.com/sirupsen/logrus"
)

// Predictor is implemented by *inference.Client.
type Predictor interface {
	Predict(ctx context.Context, payload []byte) (*inference.Response, error)
}

// Deps carries everything the handlers need.
type Deps struct {
	Logger    logrus.FieldLogger
	Auth      *services.AuthService
	Contacts  *services.ContactService
	Donations *services.DonationService
	Payments  *services.PaymentService
	Predictor Predictor

	// Health reports whether the database is reachable.
	Health func(ctx context.Context) error
}

// Amount accepts a JSON number or a numeric string, since the
// frontend posts form values as strings.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*a = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid amount %q", s)
	}
	*a = Amount(f)
	return nil
}

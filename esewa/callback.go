package esewa

import (
	"bytes"
	"crypto/hmac"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"psetu-backend/models"
)

// Callback is the decoded "data" query parameter eSewa appends to success_url.
type Callback struct {
	TransactionCode  string
	Status           string
	TotalAmount      string
	TransactionUUID  string
	ProductCode      string
	SignedFieldNames string
	Signature        string

	// Fields keeps every value as the gateway rendered it, for signature checks.
	Fields map[string]string
}

func DecodeCallback(data string) (*Callback, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidCallback)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}

	fields := make(map[string]string, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = fmt.Sprint(val)
		case nil:
			fields[k] = ""
		}
	}

	cb := &Callback{
		TransactionCode:  fields["transaction_code"],
		Status:           fields["status"],
		TotalAmount:      fields["total_amount"],
		TransactionUUID:  fields["transaction_uuid"],
		ProductCode:      fields["product_code"],
		SignedFieldNames: fields["signed_field_names"],
		Signature:        fields["signature"],
		Fields:           fields,
	}
	if cb.TransactionUUID == "" {
		return nil, fmt.Errorf("%w: missing transaction_uuid", ErrInvalidCallback)
	}

	return cb, nil
}

func (cb *Callback) Verify(secret string) error {
	if cb.SignedFieldNames == "" || cb.Signature == "" {
		return fmt.Errorf("%w: unsigned token", ErrInvalidCallback)
	}

	expected := Sign(secret, cb.SignedFieldNames, cb.Fields)
	if !hmac.Equal([]byte(expected), []byte(cb.Signature)) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidCallback)
	}
	return nil
}

// MapStatus converts a gateway status into the stored transaction status.
func MapStatus(gateway string) models.TransactionStatus {
	switch strings.ToUpper(strings.TrimSpace(gateway)) {
	case "COMPLETE", "COMPLETED":
		return models.StatusCompleted
	case "PENDING", "AMBIENT":
		return models.StatusPending
	case "FULL_REFUND", "PARTIAL_REFUND", "REFUNDED":
		return models.StatusRefunded
	default:
		// NOT_FOUND, CANCELED and anything unknown
		return models.StatusFailed
	}
}

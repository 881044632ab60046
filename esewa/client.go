package esewa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrGatewayStatus   = errors.New("esewa returned non-success status")
	ErrNotConfigured   = errors.New("esewa merchant credentials are not configured")
	ErrInvalidCallback = errors.New("invalid esewa callback token")
)

type Config struct {
	MerchantID string // product_code
	Secret     string
	PaymentURL string
	StatusURL  string
	SuccessURL string
	FailureURL string
	Timeout    time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type PaymentRequest struct {
	Amount          float64
	TransactionUUID string
}

type InitiateResult struct {
	URL  string            `json:"url"`
	Form map[string]string `json:"form"`
}

// StatusResponse is the body of the transaction status API.
type StatusResponse struct {
	ProductCode     string  `json:"product_code"`
	TransactionUUID string  `json:"transaction_uuid"`
	TotalAmount     float64 `json:"total_amount"`
	Status          string  `json:"status"`
	RefID           string  `json:"ref_id"`
}

// Form builds the signed v2 form fields for a payment.
func (c *Client) Form(req PaymentRequest) map[string]string {
	amount := FormatAmount(req.Amount)
	return map[string]string{
		"amount":                  amount,
		"tax_amount":              "0",
		"total_amount":            amount,
		"transaction_uuid":        req.TransactionUUID,
		"product_code":            c.cfg.MerchantID,
		"product_service_charge":  "0",
		"product_delivery_charge": "0",
		"success_url":             c.cfg.SuccessURL,
		"failure_url":             c.cfg.FailureURL,
		"signed_field_names":      PaymentSignedFields,
		"signature":               SignPayment(c.cfg.Secret, amount, req.TransactionUUID, c.cfg.MerchantID),
	}
}

// Initiate posts the signed form to the gateway and returns the URL the
// gateway redirected to, which the browser should navigate to.
func (c *Client) Initiate(ctx context.Context, req PaymentRequest) (*InitiateResult, error) {
	if c.cfg.MerchantID == "" || c.cfg.Secret == "" || c.cfg.PaymentURL == "" {
		return nil, ErrNotConfigured
	}

	form := c.Form(req)
	values := url.Values{}
	for k, v := range form {
		values.Set(k, v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.PaymentURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build esewa payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send esewa payment request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrGatewayStatus, resp.Status)
	}

	return &InitiateResult{
		URL:  resp.Request.URL.String(),
		Form: form,
	}, nil
}

// CheckStatus queries the status API for one transaction.
func (c *Client) CheckStatus(ctx context.Context, totalAmount float64, transactionUUID string) (*StatusResponse, error) {
	if c.cfg.MerchantID == "" || c.cfg.StatusURL == "" {
		return nil, ErrNotConfigured
	}

	endpoint, err := url.Parse(c.cfg.StatusURL)
	if err != nil {
		return nil, fmt.Errorf("parse esewa status url: %w", err)
	}
	q := endpoint.Query()
	q.Set("product_code", c.cfg.MerchantID)
	q.Set("total_amount", FormatAmount(totalAmount))
	q.Set("transaction_uuid", transactionUUID)
	endpoint.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build esewa status request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send esewa status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrGatewayStatus, resp.Status)
	}

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode esewa status response: %w", err)
	}

	return &status, nil
}

// VerifyCallback decodes the success redirect token and checks its signature.
func (c *Client) VerifyCallback(data string) (*Callback, error) {
	cb, err := DecodeCallback(data)
	if err != nil {
		return nil, err
	}
	if err := cb.Verify(c.cfg.Secret); err != nil {
		return nil, err
	}
	return cb, nil
}

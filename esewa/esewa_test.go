package esewa

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"psetu-backend/models"
)

const testSecret = "8gBm/:&EnhH.1/q"

func TestSignPaymentMessageLayout(t *testing.T) {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte("total_amount=100,transaction_uuid=11-201-13,product_code=EPAYTEST"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	got := SignPayment(testSecret, "100", "11-201-13", "EPAYTEST")
	if got != want {
		t.Fatalf("signature mismatch: got %s want %s", got, want)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{100: "100", 100.5: "100.5", 1250.25: "1250.25"}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%v) = %s want %s", in, got, want)
		}
	}
}

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		MerchantID: "EPAYTEST",
		Secret:     testSecret,
		PaymentURL: serverURL + "/api/epay/main/v2/form",
		StatusURL:  serverURL + "/api/epay/transaction/status/",
		SuccessURL: "http://localhost:5173/payment-success",
		FailureURL: "http://localhost:5173/payment-failure",
		Timeout:    2 * time.Second,
	})
}

func TestInitiateFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/epay/main/v2/form", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("total_amount") != "250" || r.PostForm.Get("transaction_uuid") != "uuid-1" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		want := SignPayment(testSecret, "250", "uuid-1", "EPAYTEST")
		if r.PostForm.Get("signature") != want {
			t.Errorf("unexpected signature %s", r.PostForm.Get("signature"))
		}
		http.Redirect(w, r, "/portal/login?session=abc", http.StatusFound)
	})
	mux.HandleFunc("/portal/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := newTestClient(srv.URL).Initiate(context.Background(), PaymentRequest{Amount: 250, TransactionUUID: "uuid-1"})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if res.URL != srv.URL+"/portal/login?session=abc" {
		t.Fatalf("unexpected redirect url %s", res.URL)
	}
	if res.Form["signed_field_names"] != PaymentSignedFields {
		t.Fatalf("unexpected signed field names %s", res.Form["signed_field_names"])
	}
}

func TestInitiateGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Initiate(context.Background(), PaymentRequest{Amount: 10, TransactionUUID: "x"})
	if !errors.Is(err, ErrGatewayStatus) {
		t.Fatalf("expected ErrGatewayStatus got %v", err)
	}
}

func TestInitiateRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{}).Initiate(context.Background(), PaymentRequest{Amount: 10, TransactionUUID: "x"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured got %v", err)
	}
}

func TestCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("product_code") != "EPAYTEST" || q.Get("total_amount") != "100" || q.Get("transaction_uuid") != "uuid-2" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"product_code":"EPAYTEST","transaction_uuid":"uuid-2","total_amount":100.0,"status":"COMPLETE","ref_id":"0001TS9"}`))
	}))
	defer srv.Close()

	status, err := newTestClient(srv.URL).CheckStatus(context.Background(), 100, "uuid-2")
	if err != nil {
		t.Fatalf("check status: %v", err)
	}
	if status.Status != "COMPLETE" || status.RefID != "0001TS9" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestCheckStatusNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CheckStatus(context.Background(), 100, "uuid-2")
	if !errors.Is(err, ErrGatewayStatus) {
		t.Fatalf("expected ErrGatewayStatus got %v", err)
	}
}

func encodeCallback(t *testing.T, body map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func signedCallbackBody() map[string]any {
	fields := map[string]string{
		"transaction_code":   "000AWEO",
		"status":             "COMPLETE",
		"total_amount":       "1,000.0",
		"transaction_uuid":   "250610-162413",
		"product_code":       "EPAYTEST",
		"signed_field_names": "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names",
	}
	body := map[string]any{}
	for k, v := range fields {
		body[k] = v
	}
	body["signature"] = Sign(testSecret, fields["signed_field_names"], fields)
	return body
}

func TestVerifyCallback(t *testing.T) {
	data := encodeCallback(t, signedCallbackBody())

	cb, err := NewClient(Config{Secret: testSecret}).VerifyCallback(data)
	if err != nil {
		t.Fatalf("verify callback: %v", err)
	}
	if cb.TransactionUUID != "250610-162413" || cb.Status != "COMPLETE" || cb.TotalAmount != "1,000.0" {
		t.Fatalf("unexpected callback %+v", cb)
	}
}

func TestVerifyCallbackRejectsTampering(t *testing.T) {
	body := signedCallbackBody()
	body["status"] = "FULL_REFUND"

	_, err := NewClient(Config{Secret: testSecret}).VerifyCallback(encodeCallback(t, body))
	if !errors.Is(err, ErrInvalidCallback) {
		t.Fatalf("expected ErrInvalidCallback got %v", err)
	}
}

func TestDecodeCallbackGarbage(t *testing.T) {
	if _, err := DecodeCallback("not base64!!"); !errors.Is(err, ErrInvalidCallback) {
		t.Fatalf("expected ErrInvalidCallback got %v", err)
	}
	if _, err := DecodeCallback(""); !errors.Is(err, ErrInvalidCallback) {
		t.Fatalf("expected ErrInvalidCallback for empty token got %v", err)
	}
}

func TestDecodeCallbackKeepsNumbersVerbatim(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte(`{"transaction_uuid":"u","total_amount":100.0}`))
	cb, err := DecodeCallback(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cb.TotalAmount != "100.0" {
		t.Fatalf("expected raw number text 100.0 got %s", cb.TotalAmount)
	}
}

func TestMapStatus(t *testing.T) {
	cases := map[string]models.TransactionStatus{
		"COMPLETE":       models.StatusCompleted,
		"PENDING":        models.StatusPending,
		"AMBIENT":        models.StatusPending,
		"FULL_REFUND":    models.StatusRefunded,
		"PARTIAL_REFUND": models.StatusRefunded,
		"NOT_FOUND":      models.StatusFailed,
		"CANCELED":       models.StatusFailed,
		"":               models.StatusFailed,
	}
	for in, want := range cases {
		if got := MapStatus(in); got != want {
			t.Fatalf("MapStatus(%q) = %s want %s", in, got, want)
		}
	}
}

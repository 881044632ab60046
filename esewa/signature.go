package esewa

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
)

// PaymentSignedFields is the field list eSewa expects on a payment form.
const PaymentSignedFields = "total_amount,transaction_uuid,product_code"

// Sign returns the base64 HMAC-SHA256 of "name=value" pairs joined by commas,
// in the order given by signedFieldNames.
func Sign(secret string, signedFieldNames string, fields map[string]string) string {
	names := strings.Split(signedFieldNames, ",")
	parts := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		parts = append(parts, name+"="+fields[name])
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, ",")))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func SignPayment(secret, totalAmount, transactionUUID, productCode string) string {
	return Sign(secret, PaymentSignedFields, map[string]string{
		"total_amount":     totalAmount,
		"transaction_uuid": transactionUUID,
		"product_code":     productCode,
	})
}

// FormatAmount renders amounts the way the gateway signs them: no trailing zeros.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

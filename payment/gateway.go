// Package payment wraps the payment gateway behind a small interface so the
// handlers never touch the SDK directly, and so the demo path is an explicit
// gateway variant rather than a branch inside the live verifier.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DummyOrderPrefix marks orders created by the dummy gateway. The prefix is
// kept for wire compatibility with existing portal clients.
const DummyOrderPrefix = "dummy_order_"

// Order is the gateway-side order a payment is collected against.
type Order struct {
	ID       string
	Amount   int64 // smallest currency unit (paise)
	Currency string
	Receipt  string
}

// RefundResult reports the outcome of a refund request.
type RefundResult struct {
	RefundID string
	Status   string // "processed" or "pending"
}

// Gateway creates orders, verifies callback signatures and issues refunds.
type Gateway interface {
	CreateOrder(amount int64, currency, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	Refund(gatewayPaymentID string, amount int64, reason string) (*RefundResult, error)
}

// signPayload computes the Razorpay callback signature:
// HMAC-SHA256(secret, orderID + "|" + paymentID), hex encoded.
func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature compares an expected signature in constant time.
func verifySignature(secret, orderID, paymentID, signature string) bool {
	expected := signPayload(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

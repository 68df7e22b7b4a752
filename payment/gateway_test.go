package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func TestVerifySignature(t *testing.T) {
	secret := "test_secret_key"
	orderID := "order_MNq9npg2H1vB7x"
	paymentID := "pay_MNqAP4wv5nRF2c"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	valid := hex.EncodeToString(mac.Sum(nil))

	tests := []struct {
		name      string
		signature string
		want      bool
	}{
		{"valid signature", valid, true},
		{"valid with surrounding whitespace", " " + valid + "\n", true},
		{"tampered last byte", valid[:len(valid)-1] + "x", false},
		{"empty", "", false},
		{"garbage", "deadbeef", false},
		{"truncated", valid[:10], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := verifySignature(secret, orderID, paymentID, tt.signature); got != tt.want {
				t.Errorf("verifySignature(%q) = %v, want %v", tt.signature, got, tt.want)
			}
		})
	}
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	sig := signPayload("secret_a", "order_1", "pay_1")
	if verifySignature("secret_b", "order_1", "pay_1", sig) {
		t.Error("signature produced with another secret must not verify")
	}
}

func TestVerifySignatureBindsOrderAndPayment(t *testing.T) {
	secret := "s"
	sig := signPayload(secret, "order_1", "pay_1")
	if verifySignature(secret, "order_2", "pay_1", sig) {
		t.Error("signature must not verify against a different order id")
	}
	if verifySignature(secret, "order_1", "pay_2", sig) {
		t.Error("signature must not verify against a different payment id")
	}
}

func TestDummyGateway(t *testing.T) {
	g := NewDummyGateway()

	order, err := g.CreateOrder(49900, "INR", "rcpt_x")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !strings.HasPrefix(order.ID, DummyOrderPrefix) {
		t.Errorf("dummy order id %q missing %q prefix", order.ID, DummyOrderPrefix)
	}
	if order.Amount != 49900 || order.Currency != "INR" {
		t.Errorf("order fields not carried through: %+v", order)
	}
	if !g.VerifySignature(order.ID, "pay_any", "anything") {
		t.Error("dummy gateway must accept any signature")
	}
}

package payment

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway is the live gateway backed by the Razorpay SDK.
type RazorpayGateway struct {
	client *razorpay.Client
	secret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		secret: keySecret,
	}
}

func (g *RazorpayGateway) CreateOrder(amount int64, currency, receipt string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create failed: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}
	return &Order{ID: id, Amount: amount, Currency: currency, Receipt: receipt}, nil
}

func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifySignature(g.secret, orderID, paymentID, signature)
}

func (g *RazorpayGateway) Refund(gatewayPaymentID string, amount int64, reason string) (*RefundResult, error) {
	data := map[string]interface{}{}
	if reason != "" {
		data["notes"] = map[string]interface{}{"reason": reason}
	}
	body, err := g.client.Payment.Refund(gatewayPaymentID, int(amount), data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay refund failed: %w", err)
	}

	id, _ := body["id"].(string)
	return &RefundResult{RefundID: id, Status: "processed"}, nil
}

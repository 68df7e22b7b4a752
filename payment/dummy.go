package payment

import "github.com/google/uuid"

// DummyGateway is the demo/no-gateway variant, selected at startup when
// payments run without Razorpay credentials. It never talks to a remote
// service: orders are locally generated and every signature verifies.
// A production build must not select this gateway.
type DummyGateway struct{}

func NewDummyGateway() DummyGateway { return DummyGateway{} }

func (DummyGateway) CreateOrder(amount int64, currency, receipt string) (*Order, error) {
	return &Order{
		ID:       DummyOrderPrefix + uuid.NewString(),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (DummyGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return true
}

func (DummyGateway) Refund(gatewayPaymentID string, amount int64, reason string) (*RefundResult, error) {
	return &RefundResult{RefundID: DummyOrderPrefix + uuid.NewString(), Status: "processed"}, nil
}

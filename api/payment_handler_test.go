package api

import (
	"testing"

	"github.com/vapeguard/insurance-api/models"
)

func TestToPaise(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{499, 49900},
		{999.95, 99995},
		{0.01, 1},
		{1899.999, 190000},
		{0, 0},
	}
	for _, tt := range tests {
		if got := toPaise(tt.price); got != tt.want {
			t.Errorf("toPaise(%v) = %d, want %d", tt.price, got, tt.want)
		}
	}
}

func TestVerifyMutable(t *testing.T) {
	mutable := map[string]bool{
		models.PaymentPending:    true,
		models.PaymentProcessing: true,
		models.PaymentCompleted:  false,
		models.PaymentFailed:     false,
		models.PaymentRefunded:   false,
		models.PaymentCancelled:  false,
	}
	for status, want := range mutable {
		if got := verifyMutable(status); got != want {
			t.Errorf("verifyMutable(%q) = %v, want %v", status, got, want)
		}
	}
}

package utils

import (
	"regexp"
	"testing"
)

var appNumberRe = regexp.MustCompile(`^VG[A-Z0-9]+$`)

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		otp := GenerateOTP()
		if len(otp) != 6 {
			t.Fatalf("OTP length = %d, want 6", len(otp))
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Fatalf("OTP contains non-digit: %q", otp)
			}
		}
		seen[otp] = true
	}
	// 50 draws from a million values colliding every time means a broken RNG.
	if len(seen) < 2 {
		t.Error("GenerateOTP returned the same code 50 times")
	}
}

func TestNewApplicationNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := NewApplicationNumber()
		if !appNumberRe.MatchString(n) {
			t.Fatalf("application number %q does not match %v", n, appNumberRe)
		}
		if seen[n] {
			t.Fatalf("duplicate application number %q", n)
		}
		seen[n] = true
	}
}

func TestNewTransactionID(t *testing.T) {
	id := NewTransactionID()
	if len(id) != 23 {
		t.Errorf("transaction id length = %d, want 23", len(id))
	}
	if id[:3] != "TXN" {
		t.Errorf("transaction id %q missing TXN prefix", id)
	}
}

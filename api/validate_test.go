package api

import (
	"testing"
	"time"
)

func TestValidAge(t *testing.T) {
	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  time.Time
		want bool
	}{
		{"exactly 18 today", time.Date(2008, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"18 tomorrow", time.Date(2008, 6, 16, 0, 0, 0, 0, time.UTC), false},
		{"17", time.Date(2009, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"exactly 100", time.Date(1926, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"101", time.Date(1925, 6, 14, 0, 0, 0, 0, time.UTC), false},
		{"mid range", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validAge(tt.dob, at); got != tt.want {
				t.Errorf("validAge(%v) = %v, want %v", tt.dob, got, tt.want)
			}
		})
	}
}

func TestValidIndianMobile(t *testing.T) {
	valid := []string{"9876543210", "6000000001", "7123456789", "8999999999"}
	for _, p := range valid {
		if !validIndianMobile(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	invalid := []string{"1234567890", "98765", "98765432101", "5876543210", "98765abcde", ""}
	for _, p := range invalid {
		if validIndianMobile(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestValidUPIID(t *testing.T) {
	valid := []string{"x@paytm", "rohit.sharma@oksbi", "user_1-a@ybl"}
	for _, id := range valid {
		if !validUPIID(id) {
			t.Errorf("expected %q to be valid", id)
		}
	}
	invalid := []string{"x@1", "noat", "@bank", "user@"}
	for _, id := range invalid {
		if validUPIID(id) {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}

func TestValidAccountNumber(t *testing.T) {
	if !validAccountNumber("123456789") {
		t.Error("9 digits should be valid")
	}
	if !validAccountNumber("123456789012345678") {
		t.Error("18 digits should be valid")
	}
	if validAccountNumber("12345678") {
		t.Error("8 digits should be invalid")
	}
	if validAccountNumber("1234567890123456789") {
		t.Error("19 digits should be invalid")
	}
	if validAccountNumber("12345678a") {
		t.Error("letters should be invalid")
	}
}

package utils

import "testing"

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"typical", "rohit.sharma@gmail.com", "ro**********@gmail.com"},
		{"short local", "ab@x.in", "**@x.in"},
		{"one char local", "a@x.in", "*@x.in"},
		{"no at sign", "garbage", "*******"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskEmail(tt.email); got != tt.want {
				t.Errorf("MaskEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestMaskPhone(t *testing.T) {
	if got := MaskPhone("9876543210"); got != "******3210" {
		t.Errorf("MaskPhone = %q", got)
	}
	if got := MaskPhone("123"); got != "***" {
		t.Errorf("MaskPhone short = %q", got)
	}
}

func TestMaskPAN(t *testing.T) {
	if got := MaskPAN("ABCDE1234F"); got != "AB******4F" {
		t.Errorf("MaskPAN = %q", got)
	}
}

func TestMaskAccountNumber(t *testing.T) {
	if got := MaskAccountNumber("123456789012"); got != "********9012" {
		t.Errorf("MaskAccountNumber = %q", got)
	}
}

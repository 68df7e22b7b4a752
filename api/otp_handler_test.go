package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vapeguard/insurance-api/models"
)

func TestCheckOTP(t *testing.T) {
	now := time.Now()
	rec := func(attempts int, expiresIn time.Duration) *models.PreVerification {
		return &models.PreVerification{Code: "123456", Attempts: attempts, ExpiresAt: now.Add(expiresIn)}
	}

	tests := []struct {
		name string
		rec  *models.PreVerification
		code string
		want otpVerdict
	}{
		{"correct code", rec(0, time.Minute), "123456", otpOK},
		{"wrong code", rec(0, time.Minute), "654321", otpMismatch},
		{"expired code", rec(0, -time.Minute), "123456", otpExpired},
		{"last allowed attempt", rec(models.MaxOTPAttempts-1, time.Minute), "123456", otpOK},
		{"sixth attempt wrong code", rec(models.MaxOTPAttempts, time.Minute), "654321", otpLocked},
		{"sixth attempt correct code stays locked", rec(models.MaxOTPAttempts, time.Minute), "123456", otpLocked},
		{"expiry reported before lock", rec(models.MaxOTPAttempts, -time.Minute), "123456", otpExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkOTP(tt.rec, tt.code, now); got != tt.want {
				t.Errorf("checkOTP(attempts=%d, code=%q) = %v, want %v", tt.rec.Attempts, tt.code, got, tt.want)
			}
		})
	}
}

func TestCheckLoginOTP(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	now := time.Now()
	rec := func(attempts int, expiresIn time.Duration) *models.LoginOTP {
		return &models.LoginOTP{CodeHash: string(hash), Attempts: attempts, ExpiresAt: now.Add(expiresIn)}
	}

	tests := []struct {
		name string
		rec  *models.LoginOTP
		code string
		want otpVerdict
	}{
		{"correct code", rec(0, time.Minute), "123456", otpOK},
		{"wrong code", rec(0, time.Minute), "654321", otpMismatch},
		{"expired code", rec(0, -time.Minute), "123456", otpExpired},
		{"sixth attempt correct code stays locked", rec(models.MaxOTPAttempts, time.Minute), "123456", otpLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkLoginOTP(tt.rec, tt.code, now); got != tt.want {
				t.Errorf("checkLoginOTP(attempts=%d, code=%q) = %v, want %v", tt.rec.Attempts, tt.code, got, tt.want)
			}
		})
	}

	// A used challenge (hash cleared) can never verify again.
	used := &models.LoginOTP{CodeHash: "", ExpiresAt: now.Add(time.Minute)}
	if got := checkLoginOTP(used, "123456", now); got != otpExpired {
		t.Errorf("cleared hash verdict = %v, want %v", got, otpExpired)
	}
}

func TestCheckVerifiedRejectsInvalidEmail(t *testing.T) {
	// Validation fails before the handler touches the store.
	h := NewOTPHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/otp/email/check-verified", strings.NewReader(`{"email":"not-an-email"}`))
	rec := httptest.NewRecorder()
	h.CheckVerified(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp models.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Code != models.CodeValidationFailed {
		t.Errorf("response = %+v, want validation failure", resp)
	}
}

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vapeguard/insurance-api/config"
	"github.com/vapeguard/insurance-api/email"
	"github.com/vapeguard/insurance-api/models"
	"github.com/vapeguard/insurance-api/store"
	"github.com/vapeguard/insurance-api/utils"
)

// OTPHandler issues and verifies pre-registration email codes.
type OTPHandler struct {
	store  *store.Store
	sender email.Sender
	cfg    *config.Config
}

func NewOTPHandler(st *store.Store, sender email.Sender, cfg *config.Config) *OTPHandler {
	return &OTPHandler{store: st, sender: sender, cfg: cfg}
}

type sendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type checkEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type otpVerdict int

const (
	otpOK otpVerdict = iota
	otpExpired
	otpLocked
	otpMismatch
)

// checkOTP classifies a verification attempt: expiry first, then the attempt
// cap, then the code itself. A correct code never unlocks a capped record.
func checkOTP(rec *models.PreVerification, code string, now time.Time) otpVerdict {
	switch {
	case rec.Expired(now):
		return otpExpired
	case rec.Attempts >= models.MaxOTPAttempts:
		return otpLocked
	case rec.Code != code:
		return otpMismatch
	}
	return otpOK
}

// SendEmailOTP handles POST /api/otp/email/send.
func (h *OTPHandler) SendEmailOTP(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Send OTP API]")

	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		utils.RespondValidationError(w, &logMessageBuilder, "Invalid email address", validationDetails(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// A verified user already owning the email fails fast; the outstanding
	// OTP record (if any) is left untouched.
	user, err := h.store.Users.FindByEmail(ctx, req.Email)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error checking user", "")
		return
	}
	if user != nil && user.EmailVerified {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Email %s already registered", req.Email))
		utils.RespondError(w, &logMessageBuilder, http.StatusConflict, "An account with this email already exists", models.CodeEmailAlreadyExists)
		return
	}

	code := utils.GenerateOTP()
	expiresAt := time.Now().Add(models.PreVerificationTTL)
	if err := h.store.PreVerifications.Upsert(ctx, req.Email, code, expiresAt); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to create verification record", "")
		return
	}

	subject, text, html := email.OTPEmail(code, int(models.PreVerificationTTL.Minutes()))
	if err := h.sender.Send(req.Name, req.Email, subject, text, html); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to send verification email", "")
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("OTP sent to %s", req.Email))
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"email":     req.Email,
		"expiresAt": expiresAt,
	})
}

// VerifyEmailOTP handles POST /api/otp/email/verify.
func (h *OTPHandler) VerifyEmailOTP(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Verify OTP API]")

	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		utils.RespondValidationError(w, &logMessageBuilder, "Email and a 6-digit OTP are required", validationDetails(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rec, err := h.store.PreVerifications.FindByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid or expired OTP", models.CodeInvalidOrExpired)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}
	// Another session may have completed registration since the code was
	// issued; re-check before marking verified.
	user, err := h.store.Users.FindByEmail(ctx, req.Email)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error checking user", "")
		return
	}
	if user != nil && user.EmailVerified {
		utils.RespondError(w, &logMessageBuilder, http.StatusConflict, "An account with this email already exists", models.CodeEmailAlreadyExists)
		return
	}

	switch checkOTP(rec, req.OTP, time.Now()) {
	case otpExpired:
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid or expired OTP", models.CodeInvalidOrExpired)
		return
	case otpLocked:
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Too many failed attempts. Please request a new OTP.", models.CodeAttemptsExceeded)
		return
	case otpMismatch:
		if err := h.store.PreVerifications.IncrementAttempts(ctx, req.Email); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to increment attempts: %v", err))
		}
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid or expired OTP", models.CodeInvalidOrExpired)
		return
	}

	if err := h.store.PreVerifications.MarkVerified(ctx, req.Email); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to mark OTP verified", "")
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("OTP verified for %s", req.Email))
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"email":    req.Email,
		"verified": true,
	})
}

// CheckVerified handles POST /api/otp/email/check-verified.
func (h *OTPHandler) CheckVerified(w http.ResponseWriter, r *http.Request) {
	var req checkEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		utils.RespondValidationError(w, nil, "Invalid email address", validationDetails(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rec, err := h.store.PreVerifications.FindByEmail(ctx, req.Email)
	verified := err == nil && rec.Verified && !rec.Expired(time.Now())
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"email":    req.Email,
		"verified": verified,
	})
}

// CheckEmail handles POST /api/application/check-email, the availability
// probe the portal calls before offering registration.
func (h *OTPHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req checkEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		utils.RespondValidationError(w, nil, "Invalid email address", validationDetails(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.store.Users.FindByEmail(ctx, req.Email)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Database error checking email", "")
		return
	}
	if user != nil && user.EmailVerified {
		utils.RespondError(w, nil, http.StatusConflict, "An account with this email already exists", models.CodeEmailAlreadyExists)
		return
	}
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"email":     req.Email,
		"available": true,
	})
}

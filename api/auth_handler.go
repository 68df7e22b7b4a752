package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/vapeguard/insurance-api/config"
	"github.com/vapeguard/insurance-api/email"
	"github.com/vapeguard/insurance-api/models"
	"github.com/vapeguard/insurance-api/store"
	"github.com/vapeguard/insurance-api/utils"
)

const refreshCookieName = "vg_refresh_token"

// AuthHandler runs the dashboard's OTP login and the JWT session endpoints.
type AuthHandler struct {
	store  *store.Store
	sender email.Sender
	cfg    *config.Config
}

func NewAuthHandler(st *store.Store, sender email.Sender, cfg *config.Config) *AuthHandler {
	return &AuthHandler{store: st, sender: sender, cfg: cfg}
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// checkLoginOTP classifies a login attempt the same way checkOTP does for
// registration codes. A cleared hash (already-used challenge) counts as
// expired, and the attempt cap holds even for a correct code.
func checkLoginOTP(rec *models.LoginOTP, code string, now time.Time) otpVerdict {
	switch {
	case rec.Expired(now) || rec.CodeHash == "":
		return otpExpired
	case rec.Attempts >= models.MaxOTPAttempts:
		return otpLocked
	case bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil:
		return otpMismatch
	}
	return otpOK
}

// CheckUser handles POST /api/dashboard/auth/check-user.
func (h *AuthHandler) CheckUser(w http.ResponseWriter, r *http.Request) {
	var req checkEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, nil, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	req.Email = normalizeEmail(req.Email)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := h.store.Users.FindByEmail(ctx, req.Email)
	exists := err == nil && user.EmailVerified
	utils.RespondData(w, http.StatusOK, map[string]interface{}{"exists": exists})
}

// SendLoginOTP handles POST /api/dashboard/auth/send-login-otp. Unlike the
// registration flow, the code is stored bcrypt-hashed.
func (h *AuthHandler) SendLoginOTP(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Send Login OTP API]")

	var req checkEmailRequest
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

	user, err := h.store.Users.FindByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments || (err == nil && !user.EmailVerified) {
		utils.RespondError(w, &logMessageBuilder, http.StatusNotFound, "No account found for this email", models.CodeNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}

	code := utils.GenerateOTP()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to process OTP", "")
		return
	}

	expiresAt := time.Now().Add(models.LoginOTPTTL)
	if err := h.store.LoginOTPs.Upsert(ctx, req.Email, string(hash), expiresAt); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to create login challenge", "")
		return
	}

	subject, text, html := email.OTPEmail(code, int(models.LoginOTPTTL.Minutes()))
	if err := h.sender.Send(user.Name, req.Email, subject, text, html); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to send login code", "")
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Login OTP sent to %s", req.Email))
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"email":     req.Email,
		"expiresAt": expiresAt,
	})
}

// VerifyLoginOTP handles POST /api/dashboard/auth/verify-login-otp and, on
// success, issues the token pair.
func (h *AuthHandler) VerifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Verify Login OTP API]")

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

	rec, err := h.store.LoginOTPs.FindByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid or expired OTP", models.CodeInvalidOrExpired)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}
	switch checkLoginOTP(rec, req.OTP, time.Now()) {
	case otpExpired:
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid or expired OTP", models.CodeInvalidOrExpired)
		return
	case otpLocked:
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Too many failed attempts. Please request a new OTP.", models.CodeAttemptsExceeded)
		return
	case otpMismatch:
		if err := h.store.LoginOTPs.IncrementAttempts(ctx, req.Email); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to increment attempts: %v", err))
		}
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid or expired OTP", models.CodeInvalidOrExpired)
		return
	}

	if err := h.store.LoginOTPs.MarkVerified(ctx, req.Email); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to finish login", "")
		return
	}

	user, err := h.store.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}

	access, refresh, err := utils.GenerateTokenPair(user.ID.Hex(), user.Email, h.cfg.JWTSecret, h.cfg.JWTRefreshSecret)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to generate tokens", "")
		return
	}

	h.setRefreshCookie(w, refresh, 7*24*time.Hour)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("User %s logged in", user.ID.Hex()))
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user,
	})
}

// Me handles GET /api/dashboard/auth/me (behind auth middleware).
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, h.store, w, r)
	if !ok {
		return
	}
	utils.RespondData(w, http.StatusOK, user)
}

// Refresh handles POST /api/dashboard/auth/refresh. The refresh token comes
// from the httpOnly cookie, with a JSON body fallback for non-browser clients.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		utils.RespondError(w, nil, http.StatusUnauthorized, "Refresh token is required", models.CodeUnauthorized)
		return
	}

	userID, err := utils.ValidateToken(token, h.cfg.JWTRefreshSecret)
	if err != nil {
		utils.RespondError(w, nil, http.StatusUnauthorized, "Invalid or expired refresh token", models.CodeUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := findUserByHexID(ctx, h.store, userID)
	if err != nil {
		utils.RespondError(w, nil, http.StatusUnauthorized, "Account no longer exists", models.CodeUnauthorized)
		return
	}

	access, refresh, err := utils.GenerateTokenPair(user.ID.Hex(), user.Email, h.cfg.JWTSecret, h.cfg.JWTRefreshSecret)
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Failed to generate tokens", "")
		return
	}

	h.setRefreshCookie(w, refresh, 7*24*time.Hour)
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// Logout handles POST /api/dashboard/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setRefreshCookie(w, "", -time.Hour)
	utils.RespondData(w, http.StatusOK, map[string]interface{}{"loggedOut": true})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/api/dashboard/auth",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

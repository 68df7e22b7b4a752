package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vapeguard/insurance-api/config"
	"github.com/vapeguard/insurance-api/models"
	"github.com/vapeguard/insurance-api/storage"
	"github.com/vapeguard/insurance-api/store"
	"github.com/vapeguard/insurance-api/utils"
)

// ApplicationHandler drives the multi-step application flow. Every status
// transition is an explicit action here; the store's compare-and-swap filter
// rejects out-of-order or duplicate moves.
type ApplicationHandler struct {
	store   *store.Store
	storage storage.Store
	cfg     *config.Config
}

func NewApplicationHandler(st *store.Store, fs storage.Store, cfg *config.Config) *ApplicationHandler {
	return &ApplicationHandler{store: st, storage: fs, cfg: cfg}
}

type vapingFrequencyRequest struct {
	Value   int    `json:"value" validate:"min=0"`
	Cadence string `json:"cadence" validate:"required,oneof=daily weekly monthly"`
}

type personalDetailsRequest struct {
	Name            string                 `json:"name" validate:"required,min=2,max=100"`
	Email           string                 `json:"email" validate:"required,email"`
	Phone           string                 `json:"phone" validate:"required"`
	DateOfBirth     string                 `json:"dateOfBirth" validate:"required"`
	City            string                 `json:"city" validate:"required,min=2,max=60"`
	VapingFrequency vapingFrequencyRequest `json:"vapingFrequency"`
	PAN             string                 `json:"pan" validate:"omitempty,len=10,alphanum"`
	Aadhaar         string                 `json:"aadhaar" validate:"omitempty,len=12,numeric"`
	Source          string                 `json:"source"`
}

type selectInsuranceRequest struct {
	SelectedInsurance string `json:"selectedInsurance" validate:"required"`
}

type paymentDetailsRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=upi phonepe gpay paytm netbanking card"`
	UPIID         string `json:"upiId"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
}

// PersonalDetails handles POST /api/application/personal-details. It is the
// only way a User and a draft Application come into existence, and it
// requires a verified pre-registration OTP for the email.
func (h *ApplicationHandler) PersonalDetails(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Personal Details API]")

	var req personalDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		utils.RespondValidationError(w, &logMessageBuilder, "Invalid personal details", validationDetails(err))
		return
	}
	if !validIndianMobile(req.Phone) {
		utils.RespondValidationError(w, &logMessageBuilder, "Invalid phone number", []string{"phone must be a 10-digit Indian mobile number"})
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		utils.RespondValidationError(w, &logMessageBuilder, "Invalid date of birth", []string{"dateOfBirth must be YYYY-MM-DD"})
		return
	}
	if !validAge(dob, time.Now()) {
		utils.RespondValidationError(w, &logMessageBuilder, "Applicant must be between 18 and 100 years old", []string{"dateOfBirth out of range"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rec, err := h.store.PreVerifications.FindByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments || (err == nil && (!rec.Verified || rec.Expired(time.Now()))) {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Email is not verified. Please verify your email first.", models.CodeInvalidOrExpired)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}

	now := time.Now()
	user, err := h.store.Users.FindByEmail(ctx, req.Email)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error checking user", "")
		return
	}

	switch {
	case user == nil:
		user = &models.User{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			DateOfBirth:     dob,
			City:            req.City,
			VapingFrequency: models.VapingHabit{Value: req.VapingFrequency.Value, Cadence: req.VapingFrequency.Cadence},
			PAN:             strings.ToUpper(req.PAN),
			Aadhaar:         req.Aadhaar,
			EmailVerified:   true,
			EmailVerifiedAt: &now,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := h.store.Users.Insert(ctx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondError(w, &logMessageBuilder, http.StatusConflict, "Email or phone is already registered", models.CodeEmailAlreadyExists)
				return
			}
			utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to create user", "")
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created user %s", user.ID.Hex()))
	case user.EmailVerified:
		// Registration already completed by another session.
		utils.RespondError(w, &logMessageBuilder, http.StatusConflict, "An account with this email already exists", models.CodeEmailAlreadyExists)
		return
	default:
		user.Name = req.Name
		user.Phone = req.Phone
		user.DateOfBirth = dob
		user.City = req.City
		user.VapingFrequency = models.VapingHabit{Value: req.VapingFrequency.Value, Cadence: req.VapingFrequency.Cadence}
		user.PAN = strings.ToUpper(req.PAN)
		user.Aadhaar = req.Aadhaar
		user.EmailVerified = true
		user.EmailVerifiedAt = &now
		if err := h.store.Users.UpdateProfile(ctx, user.ID, user); err != nil {
			utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to update user", "")
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Updated unverified user %s", user.ID.Hex()))
	}

	app := &models.Application{
		UserID:            user.ID,
		ApplicationNumber: utils.NewApplicationNumber(),
		Status:            models.StatusDraft,
		Metadata: models.ApplicationMetadata{
			IP:        clientIP(r),
			UserAgent: r.UserAgent(),
			Source:    req.Source,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.Applications.Insert(ctx, app); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to create application", "")
		return
	}

	// The transient OTP record has served its purpose.
	if err := h.store.PreVerifications.Delete(ctx, req.Email); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete pre-verification: %v", err))
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Application %s created", app.ApplicationNumber))
	utils.RespondData(w, http.StatusCreated, map[string]interface{}{
		"applicationId":     app.ID.Hex(),
		"applicationNumber": app.ApplicationNumber,
		"status":            app.Status,
	})
}

// Get handles GET /api/application/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	app, ok := h.findApplication(ctx, w, r)
	if !ok {
		return
	}
	h.populatePlan(ctx, app)
	utils.RespondData(w, http.StatusOK, app)
}

// SelectInsurance handles PUT /api/application/{id}/insurance.
func (h *ApplicationHandler) SelectInsurance(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Select Insurance API]")

	var req selectInsuranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondValidationError(w, &logMessageBuilder, "selectedInsurance is required", validationDetails(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, ok := parseObjectID(w, r)
	if !ok {
		return
	}

	plan, err := h.store.Plans.FindByPlanID(ctx, req.SelectedInsurance)
	if err == mongo.ErrNoDocuments || (err == nil && !plan.IsActive) {
		utils.RespondError(w, &logMessageBuilder, http.StatusNotFound, "Insurance plan not found", models.CodeNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}

	now := time.Now()
	app, err := h.store.Applications.Transition(ctx, id,
		[]string{models.StatusDraft, models.StatusSubmitted},
		bson.M{
			"insurance_plan_id": plan.PlanID,
			"status":            models.StatusSubmitted,
			"submitted_at":      now,
		})
	if !h.respondTransition(w, &logMessageBuilder, err) {
		return
	}

	app.Plan = plan
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Application %s selected plan %s", app.ApplicationNumber, plan.PlanID))
	utils.RespondData(w, http.StatusOK, app)
}

// RecordPayment handles PUT /api/application/{id}/payment: validates the
// method-specific shape, opens a pending Payment row priced from the selected
// plan, and moves the application to payment_pending.
func (h *ApplicationHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Record Payment API]")

	if !h.cfg.PaymentEnabled {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Payments are currently disabled", models.CodePaymentDisabled)
		return
	}

	var req paymentDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondValidationError(w, &logMessageBuilder, "Invalid payment details", validationDetails(err))
		return
	}
	if details := paymentShapeErrors(&req); len(details) > 0 {
		utils.RespondValidationError(w, &logMessageBuilder, "Invalid payment details", details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	app, ok := h.findApplication(ctx, w, r)
	if !ok {
		return
	}
	if app.InsurancePlanID == "" {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Select an insurance plan before adding payment details", models.CodeInvalidStatus)
		return
	}
	if !recordPaymentAllowed(app.Status) {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Application is not in a valid status for this step", models.CodeInvalidStatus)
		return
	}

	plan, err := h.store.Plans.FindByPlanID(ctx, app.InsurancePlanID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusNotFound, "Insurance plan not found", models.CodeNotFound)
		return
	}

	now := time.Now()
	pay := &models.Payment{
		UserID:        app.UserID,
		ApplicationID: app.ID,
		Amount:        plan.Price,
		Currency:      plan.Currency,
		Method:        req.PaymentMethod,
		UPIID:         req.UPIID,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		Status:        models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.store.Payments.Insert(ctx, pay); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to record payment", "")
		return
	}

	updated, err := h.store.Applications.Transition(ctx, app.ID,
		[]string{models.StatusDraft, models.StatusSubmitted},
		bson.M{"status": models.StatusPaymentPending})
	if err != nil {
		// A lost race must not leave a pending row behind: LatestPending
		// would hand it to create-order and re-open a finished application.
		if derr := h.store.Payments.Delete(ctx, pay.ID); derr != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to remove stale payment row: %v", derr))
		}
	}
	if !h.respondTransition(w, &logMessageBuilder, err) {
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Payment row %s recorded for %s", pay.ID.Hex(), updated.ApplicationNumber))
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"application": updated,
		"payment":     pay,
	})
}

// Submit handles POST /api/application/{id}/submit.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Submit Application API]")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	app, ok := h.findApplication(ctx, w, r)
	if !ok {
		return
	}
	if msg := h.submitBlocker(ctx, app); msg != "" {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, msg, models.CodeInvalidStatus)
		return
	}

	updated, err := h.store.Applications.Transition(ctx, app.ID,
		[]string{models.StatusDraft, models.StatusSubmitted},
		bson.M{"status": models.StatusUnderReview})
	if !h.respondTransition(w, &logMessageBuilder, err) {
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Application %s moved to review", updated.ApplicationNumber))
	utils.RespondData(w, http.StatusOK, updated)
}

// Enroll handles POST /api/application/{id}/enroll, the pay-later path.
func (h *ApplicationHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Enroll API]")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	app, ok := h.findApplication(ctx, w, r)
	if !ok {
		return
	}
	if app.InsurancePlanID == "" {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Select an insurance plan before enrolling", models.CodeInvalidStatus)
		return
	}
	if msg := h.submitBlocker(ctx, app); msg != "" {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, msg, models.CodeInvalidStatus)
		return
	}

	now := time.Now()
	updated, err := h.store.Applications.Transition(ctx, app.ID,
		[]string{models.StatusDraft, models.StatusSubmitted, models.StatusPaymentPending},
		bson.M{
			"status":      models.StatusEnrolled,
			"is_enrolled": true,
			"enrolled_at": now,
		})
	if !h.respondTransition(w, &logMessageBuilder, err) {
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Application %s enrolled (pay later)", updated.ApplicationNumber))
	utils.RespondData(w, http.StatusOK, updated)
}

// UploadBill handles POST /api/application/{id}/upload-bill (multipart).
func (h *ApplicationHandler) UploadBill(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Upload Bill API]")

	if !h.cfg.BillPhotoEnabled {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Bill photo upload is not enabled", models.CodeFeatureDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Error parsing form data", models.CodeValidationFailed)
		return
	}
	defer r.MultipartForm.RemoveAll()

	// Reject bad uploads before touching the database or storage.
	file, header, err := r.FormFile("billPhoto")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "billPhoto file is required", models.CodeValidationFailed)
		return
	}
	defer file.Close()

	if header.Size > models.MaxBillPhotoSize {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Bill photo must be 5MB or smaller", models.CodeValidationFailed)
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Only image uploads are accepted", models.CodeValidationFailed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	app, ok := h.findApplication(ctx, w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf("bill_%s_%d%s", app.ID.Hex(), time.Now().UnixNano(), filepath.Ext(header.Filename))
	if err := h.storage.Save(ctx, key, contentType, file); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to store bill photo", "")
		return
	}

	now := time.Now()
	photo := &models.BillPhoto{
		UserID:        app.UserID,
		ApplicationID: app.ID,
		Filename:      key,
		OriginalName:  header.Filename,
		Mimetype:      contentType,
		Size:          header.Size,
		StorageKey:    key,
		Status:        models.BillUploaded,
		UploadedAt:    now,
		UpdatedAt:     now,
	}
	if err := h.store.BillPhotos.Upsert(ctx, photo); err != nil {
		// Keep disk and database consistent on failure.
		h.storage.Remove(ctx, key)
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to save bill photo record", "")
		return
	}

	url, _ := h.storage.URL(ctx, key)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Bill photo stored for %s", app.ApplicationNumber))
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"billPhoto": photo,
		"url":       url,
	})
}

// submitBlocker returns a human-readable reason the application cannot be
// submitted or enrolled yet, or "" when canSubmit holds.
func (h *ApplicationHandler) submitBlocker(ctx context.Context, app *models.Application) string {
	user, err := h.store.Users.FindByID(ctx, app.UserID)
	if err != nil || !user.EmailVerified {
		return "Email must be verified before submitting"
	}
	if h.cfg.BillPhotoEnabled {
		photo, err := h.store.BillPhotos.FindByApplication(ctx, app.ID)
		if err != nil || photo.Status != models.BillUploaded {
			return "An uploaded bill photo is required before submitting"
		}
	}
	return ""
}

// recordPaymentAllowed mirrors the transition filter for the payment step, so
// no Payment row is ever created for an application that cannot move to
// payment_pending.
func recordPaymentAllowed(status string) bool {
	return status == models.StatusDraft || status == models.StatusSubmitted
}

func paymentShapeErrors(req *paymentDetailsRequest) []string {
	var details []string
	switch req.PaymentMethod {
	case "upi", "phonepe", "gpay", "paytm":
		if !validUPIID(req.UPIID) {
			details = append(details, "upiId must look like handle@provider")
		}
	case "netbanking":
		if strings.TrimSpace(req.BankName) == "" {
			details = append(details, "bankName is required for netbanking")
		}
		if !validAccountNumber(req.AccountNumber) {
			details = append(details, "accountNumber must be 9-18 digits")
		}
	case "card":
		// Card details are collected by the gateway checkout, never by us.
	}
	return details
}

func parseObjectID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, nil, http.StatusBadRequest, "Invalid application id", models.CodeValidationFailed)
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *ApplicationHandler) findApplication(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Application, bool) {
	id, ok := parseObjectID(w, r)
	if !ok {
		return nil, false
	}
	app, err := h.store.Applications.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, nil, http.StatusNotFound, "Application not found", models.CodeNotFound)
		return nil, false
	}
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Database error", "")
		return nil, false
	}
	return app, true
}

func (h *ApplicationHandler) populatePlan(ctx context.Context, app *models.Application) {
	if app.InsurancePlanID == "" {
		return
	}
	if plan, err := h.store.Plans.FindByPlanID(ctx, app.InsurancePlanID); err == nil {
		app.Plan = plan
	}
}

func (h *ApplicationHandler) respondTransition(w http.ResponseWriter, logger *strings.Builder, err error) bool {
	switch err {
	case nil:
		return true
	case store.ErrStatusConflict:
		utils.RespondError(w, logger, http.StatusBadRequest, "Application is not in a valid status for this step", models.CodeInvalidStatus)
	case mongo.ErrNoDocuments:
		utils.RespondError(w, logger, http.StatusNotFound, "Application not found", models.CodeNotFound)
	default:
		utils.RespondError(w, logger, http.StatusInternalServerError, "Failed to update application", "")
	}
	return false
}

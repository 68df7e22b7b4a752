package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vapeguard/insurance-api/config"
	"github.com/vapeguard/insurance-api/models"
	"github.com/vapeguard/insurance-api/payment"
	"github.com/vapeguard/insurance-api/store"
	"github.com/vapeguard/insurance-api/utils"
)

// PaymentHandler drives gateway orders, callback verification and refunds.
type PaymentHandler struct {
	store   *store.Store
	gateway payment.Gateway
	cfg     *config.Config
}

func NewPaymentHandler(st *store.Store, gw payment.Gateway, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{store: st, gateway: gw, cfg: cfg}
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type processPaymentRequest struct {
	ApplicationID string `json:"applicationId" validate:"required"`
}

type refundRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// toPaise converts a rupee price to the smallest currency unit without
// truncating fractional paise.
func toPaise(price float64) int64 {
	return int64(math.Round(price * 100))
}

// verifyMutable reports whether a gateway callback may still change the
// payment. Settled payments (completed, failed, refunded, cancelled) are
// immutable.
func verifyMutable(status string) bool {
	return status == models.PaymentPending || status == models.PaymentProcessing
}

// CreateOrder handles POST /api/payment/create-order/{id}.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Order API]")

	if !h.cfg.PaymentEnabled {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Payments are currently disabled", models.CodePaymentDisabled)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	id, ok := parseObjectID(w, r)
	if !ok {
		return
	}
	app, err := h.store.Applications.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, http.StatusNotFound, "Application not found", models.CodeNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}
	if app.InsurancePlanID == "" {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Select an insurance plan before paying", models.CodeInvalidStatus)
		return
	}

	plan, err := h.store.Plans.FindByPlanID(ctx, app.InsurancePlanID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusNotFound, "Insurance plan not found", models.CodeNotFound)
		return
	}

	amount := toPaise(plan.Price)
	order, err := h.gateway.CreateOrder(amount, plan.Currency, utils.NewReceiptID())
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Gateway order failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Failed to create payment order", "")
		return
	}

	now := time.Now()
	pay, err := h.store.Payments.LatestPending(ctx, app.ID)
	if err == mongo.ErrNoDocuments {
		pay = &models.Payment{
			UserID:        app.UserID,
			ApplicationID: app.ID,
			Amount:        plan.Price,
			Currency:      plan.Currency,
			Method:        "card",
			Status:        models.PaymentPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := h.store.Payments.Insert(ctx, pay); err != nil {
			utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to create payment record", "")
			return
		}
	} else if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}

	if err := h.store.Payments.Update(ctx, pay.ID, bson.M{"razorpay_order_id": order.ID}); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to save order id", "")
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Order %s created for %s", order.ID, app.ApplicationNumber))
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"orderId":   order.ID,
		"amount":    order.Amount,
		"currency":  order.Currency,
		"keyId":     h.cfg.RazorpayKeyID,
		"paymentId": pay.ID.Hex(),
	})
}

// Verify handles POST /api/payment/verify, the gateway callback. A valid
// signature completes both the payment and the application; anything else
// marks the payment failed.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Verify Payment API]")

	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondValidationError(w, &logMessageBuilder, "Order id, payment id and signature are required", validationDetails(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pay, err := h.store.Payments.FindByOrderID(ctx, req.RazorpayOrderID)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, http.StatusNotFound, "No payment found for this order", models.CodeNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}

	// A settled payment is immutable; a replayed callback must not flip its
	// status in either direction.
	if !verifyMutable(pay.Status) {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Payment is already settled", models.CodeInvalidStatus)
		return
	}

	if !h.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		if err := h.store.Payments.Update(ctx, pay.ID, bson.M{
			"status":         models.PaymentFailed,
			"failure_reason": models.CodeInvalidSignature,
		}); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to mark payment failed: %v", err))
		}
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Payment signature verification failed", models.CodeInvalidSignature)
		return
	}

	now := time.Now()
	set := bson.M{
		"status":              models.PaymentCompleted,
		"razorpay_payment_id": req.RazorpayPaymentID,
		"razorpay_signature":  req.RazorpaySignature,
		"completed_at":        now,
	}
	if pay.TransactionID == "" {
		set["transaction_id"] = utils.NewTransactionID()
	}
	if err := h.store.Payments.Update(ctx, pay.ID, set); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to update payment", "")
		return
	}

	app, err := h.store.Applications.Transition(ctx, pay.ApplicationID,
		[]string{models.StatusDraft, models.StatusSubmitted, models.StatusPaymentPending},
		bson.M{"status": models.StatusCompleted, "completed_at": now})
	if err != nil {
		// The payment is settled either way; report the application as-is.
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Application transition failed: %v", err))
		app, _ = h.store.Applications.FindByID(ctx, pay.ApplicationID)
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Payment %s completed", pay.ID.Hex()))
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"paymentStatus": models.PaymentCompleted,
		"application":   app,
	})
}

// Process handles POST /api/payment/process, the non-gateway confirmation
// path: the pending payment moves to processing and gets its transaction id.
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Process Payment API]")

	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}
	appID, err := primitive.ObjectIDFromHex(req.ApplicationID)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid application id", models.CodeValidationFailed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pay, err := h.store.Payments.LatestPending(ctx, appID)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, http.StatusNotFound, "No pending payment for this application", models.CodeNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}

	set := bson.M{"status": models.PaymentProcessing}
	if pay.TransactionID == "" {
		set["transaction_id"] = utils.NewTransactionID()
	}
	if err := h.store.Payments.Update(ctx, pay.ID, set); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to update payment", "")
		return
	}

	pay, _ = h.store.Payments.FindByID(ctx, pay.ID)
	utils.RespondData(w, http.StatusOK, pay)
}

// Status handles GET /api/payment/status/{id} (id = application id).
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, ok := parseObjectID(w, r)
	if !ok {
		return
	}
	pay, err := h.store.Payments.Latest(ctx, id)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, nil, http.StatusNotFound, "No payment found for this application", models.CodeNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Database error", "")
		return
	}
	utils.RespondData(w, http.StatusOK, pay)
}

// Refund handles POST /api/payment/refund/{id} (id = payment id). Only
// completed payments are refundable; gateway payments go through the SDK,
// manual ones get a pending marker for the back office.
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Refund API]")

	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Invalid request body", models.CodeValidationFailed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	id, ok := parseObjectID(w, r)
	if !ok {
		return
	}
	pay, err := h.store.Payments.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, &logMessageBuilder, http.StatusNotFound, "Payment not found", models.CodeNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Database error", "")
		return
	}
	if pay.Status != models.PaymentCompleted {
		utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Only completed payments can be refunded", models.CodeInvalidStatus)
		return
	}

	amount := req.Amount
	if amount <= 0 || amount > pay.Amount {
		amount = pay.Amount
	}

	refund := &models.Refund{
		Amount:      amount,
		Reason:      req.Reason,
		Status:      "pending",
		RequestedAt: time.Now(),
	}
	if pay.RazorpayPaymentID != "" {
		result, err := h.gateway.Refund(pay.RazorpayPaymentID, int64(amount*100), req.Reason)
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Gateway refund failed: %v", err))
			utils.RespondError(w, &logMessageBuilder, http.StatusBadRequest, "Refund request failed at the gateway", "")
			return
		}
		refund.RefundID = result.RefundID
		refund.Status = result.Status
	}

	if err := h.store.Payments.Update(ctx, pay.ID, bson.M{
		"status": models.PaymentRefunded,
		"refund": refund,
	}); err != nil {
		utils.RespondError(w, &logMessageBuilder, http.StatusInternalServerError, "Failed to record refund", "")
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Payment %s refunded (%s)", pay.ID.Hex(), refund.Status))
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"paymentId": pay.ID.Hex(),
		"refund":    refund,
	})
}

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vapeguard/insurance-api/config"
	"github.com/vapeguard/insurance-api/models"
	"github.com/vapeguard/insurance-api/store"
	"github.com/vapeguard/insurance-api/utils"
)

// DashboardHandler serves the authenticated read-side views. No endpoint
// here writes anything.
type DashboardHandler struct {
	store *store.Store
	cfg   *config.Config
}

func NewDashboardHandler(st *store.Store, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{store: st, cfg: cfg}
}

// Overview handles GET /api/dashboard.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, h.store, w, r)
	if !ok {
		return
	}

	apps, err := h.store.Applications.FindByUser(ctx, user.ID)
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Failed to load applications", "")
		return
	}
	h.populatePlans(ctx, apps)

	payments, err := h.store.Payments.FindByUser(ctx, user.ID)
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Failed to load payments", "")
		return
	}

	overview := map[string]interface{}{
		"user":             user,
		"applicationCount": len(apps),
		"paymentCount":     len(payments),
	}
	if len(apps) > 0 {
		overview["latestApplication"] = apps[0]
	}
	if len(payments) > 0 {
		overview["latestPayment"] = payments[0]
	}
	utils.RespondData(w, http.StatusOK, overview)
}

// CurrentPlan handles GET /api/dashboard/current-plan: the plan of the
// newest non-rejected application that has one selected.
func (h *DashboardHandler) CurrentPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, h.store, w, r)
	if !ok {
		return
	}

	apps, err := h.store.Applications.FindByUser(ctx, user.ID)
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Failed to load applications", "")
		return
	}

	for i := range apps {
		app := &apps[i]
		if app.Status == models.StatusRejected || app.InsurancePlanID == "" {
			continue
		}
		plan, err := h.store.Plans.FindByPlanID(ctx, app.InsurancePlanID)
		if err != nil {
			continue
		}
		utils.RespondData(w, http.StatusOK, map[string]interface{}{
			"plan":              plan,
			"applicationId":     app.ID.Hex(),
			"applicationNumber": app.ApplicationNumber,
			"status":            app.Status,
		})
		return
	}
	utils.RespondError(w, nil, http.StatusNotFound, "No active plan found", models.CodeNotFound)
}

// Applications handles GET /api/dashboard/applications.
func (h *DashboardHandler) Applications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, h.store, w, r)
	if !ok {
		return
	}

	apps, err := h.store.Applications.FindByUser(ctx, user.ID)
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Failed to load applications", "")
		return
	}
	h.populatePlans(ctx, apps)
	utils.RespondData(w, http.StatusOK, apps)
}

// Payments handles GET /api/dashboard/payments.
func (h *DashboardHandler) Payments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, h.store, w, r)
	if !ok {
		return
	}

	payments, err := h.store.Payments.FindByUser(ctx, user.ID)
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Failed to load payments", "")
		return
	}

	// Resolve each payment's plan through its application.
	planByApp := map[primitive.ObjectID]*models.InsurancePlan{}
	for i := range payments {
		p := &payments[i]
		if plan, ok := planByApp[p.ApplicationID]; ok {
			p.Plan = plan
			continue
		}
		app, err := h.store.Applications.FindByID(ctx, p.ApplicationID)
		if err != nil || app.InsurancePlanID == "" {
			continue
		}
		if plan, err := h.store.Plans.FindByPlanID(ctx, app.InsurancePlanID); err == nil {
			planByApp[p.ApplicationID] = plan
			p.Plan = plan
		}
	}
	utils.RespondData(w, http.StatusOK, payments)
}

// MonthlyPayments handles GET /api/dashboard/monthly-payments?year=YYYY with
// twelve zero-filled buckets.
func (h *DashboardHandler) MonthlyPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, h.store, w, r)
	if !ok {
		return
	}

	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil || parsed < 2000 || parsed > 2100 {
			utils.RespondError(w, nil, http.StatusBadRequest, "Invalid year", models.CodeValidationFailed)
			return
		}
		year = parsed
	}

	buckets, err := h.store.Payments.MonthlyTotals(ctx, user.ID, year)
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Failed to aggregate payments", "")
		return
	}

	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"months": zeroFillMonths(buckets),
	})
}

// VerificationStatus handles GET /api/dashboard/verification-status for the
// user's newest application.
func (h *DashboardHandler) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, h.store, w, r)
	if !ok {
		return
	}

	apps, err := h.store.Applications.FindByUser(ctx, user.ID)
	if err != nil || len(apps) == 0 {
		utils.RespondError(w, nil, http.StatusNotFound, "No application found", models.CodeNotFound)
		return
	}
	utils.RespondData(w, http.StatusOK, buildVerificationStatus(ctx, h.store, h.cfg, &apps[0]))
}

// MaskedPII handles GET /api/dashboard/masked-pii.
func (h *DashboardHandler) MaskedPII(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, h.store, w, r)
	if !ok {
		return
	}

	masked := map[string]string{
		"email": utils.MaskEmail(user.Email),
		"phone": utils.MaskPhone(user.Phone),
	}
	if user.PAN != "" {
		masked["pan"] = utils.MaskPAN(user.PAN)
	}
	if user.Aadhaar != "" {
		masked["aadhaar"] = utils.MaskAadhaar(user.Aadhaar)
	}

	// Bank details only exist when a netbanking payment was recorded.
	if payments, err := h.store.Payments.FindByUser(ctx, user.ID); err == nil {
		for i := range payments {
			if payments[i].AccountNumber != "" {
				masked["accountNumber"] = utils.MaskAccountNumber(payments[i].AccountNumber)
				break
			}
		}
	}
	utils.RespondData(w, http.StatusOK, masked)
}

// zeroFillMonths expands sparse aggregation buckets into all twelve months.
func zeroFillMonths(buckets []store.MonthlyBucket) []store.MonthlyBucket {
	filled := make([]store.MonthlyBucket, 12)
	for i := range filled {
		filled[i].Month = i + 1
	}
	for _, b := range buckets {
		if b.Month >= 1 && b.Month <= 12 {
			filled[b.Month-1] = b
		}
	}
	return filled
}

func (h *DashboardHandler) populatePlans(ctx context.Context, apps []models.Application) {
	cache := map[string]*models.InsurancePlan{}
	for i := range apps {
		app := &apps[i]
		if app.InsurancePlanID == "" {
			continue
		}
		if plan, ok := cache[app.InsurancePlanID]; ok {
			app.Plan = plan
			continue
		}
		if plan, err := h.store.Plans.FindByPlanID(ctx, app.InsurancePlanID); err == nil {
			cache[app.InsurancePlanID] = plan
			app.Plan = plan
		}
	}
}

// currentUser resolves the authenticated user from the request context set by
// AuthMiddleware. It writes the error response itself when resolution fails.
func currentUser(ctx context.Context, st *store.Store, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, _ := r.Context().Value(UserIDKey).(string)
	if userID == "" {
		utils.RespondError(w, nil, http.StatusUnauthorized, "Authentication required", models.CodeUnauthorized)
		return nil, false
	}
	user, err := findUserByHexID(ctx, st, userID)
	if err != nil {
		utils.RespondError(w, nil, http.StatusUnauthorized, "Account no longer exists", models.CodeUnauthorized)
		return nil, false
	}
	return user, true
}

func findUserByHexID(ctx context.Context, st *store.Store, hexID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	return st.Users.FindByID(ctx, id)
}

package api

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vapeguard/insurance-api/config"
	"github.com/vapeguard/insurance-api/models"
	"github.com/vapeguard/insurance-api/store"
	"github.com/vapeguard/insurance-api/utils"
)

// VerificationHandler exposes the per-field verification view used by both
// the portal and the dashboard.
type VerificationHandler struct {
	store *store.Store
	cfg   *config.Config
}

func NewVerificationHandler(st *store.Store, cfg *config.Config) *VerificationHandler {
	return &VerificationHandler{store: st, cfg: cfg}
}

// Status handles GET /api/verification/status/{id}.
func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, ok := parseObjectID(w, r)
	if !ok {
		return
	}
	app, err := h.store.Applications.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, nil, http.StatusNotFound, "Application not found", models.CodeNotFound)
		return
	}
	if err != nil {
		utils.RespondError(w, nil, http.StatusInternalServerError, "Database error", "")
		return
	}

	utils.RespondData(w, http.StatusOK, buildVerificationStatus(ctx, h.store, h.cfg, app))
}

// buildVerificationStatus assembles the per-field verified/pending view.
func buildVerificationStatus(ctx context.Context, st *store.Store, cfg *config.Config, app *models.Application) map[string]string {
	status := map[string]string{
		"email":   "pending",
		"payment": "pending",
	}

	if user, err := st.Users.FindByID(ctx, app.UserID); err == nil && user.EmailVerified {
		status["email"] = "verified"
	}

	if cfg.BillPhotoEnabled {
		status["billPhoto"] = "pending"
		if photo, err := st.BillPhotos.FindByApplication(ctx, app.ID); err == nil {
			status["billPhoto"] = photo.Status
		}
	}

	if pay, err := st.Payments.Latest(ctx, app.ID); err == nil {
		switch pay.Status {
		case models.PaymentCompleted:
			status["payment"] = "verified"
		default:
			status["payment"] = pay.Status
		}
	}
	if app.IsEnrolled {
		status["payment"] = "deferred"
	}

	return status
}

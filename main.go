package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/vapeguard/insurance-api/api"
	"github.com/vapeguard/insurance-api/config"
	"github.com/vapeguard/insurance-api/email"
	"github.com/vapeguard/insurance-api/payment"
	"github.com/vapeguard/insurance-api/storage"
	"github.com/vapeguard/insurance-api/store"
	"github.com/vapeguard/insurance-api/utils"
)

func main() {
	cfg := config.Load()

	// Initialize MongoDB
	if err := utils.ConnectMongo(cfg.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := utils.EnsureIndexes(ctx, cfg.Database); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancel()

	st := store.New(cfg.Database)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Fatalf("Failed to configure email: %v", err)
	}

	fileStore, err := storage.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to configure upload storage: %v", err)
	}

	gateway, err := selectGateway(cfg)
	if err != nil {
		log.Fatalf("Failed to configure payment gateway: %v", err)
	}

	otpHandler := api.NewOTPHandler(st, sender, cfg)
	appHandler := api.NewApplicationHandler(st, fileStore, cfg)
	insuranceHandler := api.NewInsuranceHandler(st)
	paymentHandler := api.NewPaymentHandler(st, gateway, cfg)
	verificationHandler := api.NewVerificationHandler(st, cfg)
	authHandler := api.NewAuthHandler(st, sender, cfg)
	dashboardHandler := api.NewDashboardHandler(st, cfg)

	// OTP abuse limits: 5 sends and 10 verifies per IP per 15 minutes.
	sendLimiter := api.NewRateLimiter(5, 15*time.Minute)
	verifyLimiter := api.NewRateLimiter(10, 15*time.Minute)

	cors := api.CORSMiddleware
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return api.AuthMiddleware(cfg.JWTSecret, next)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/otp/email/send", cors(sendLimiter.Middleware(otpHandler.SendEmailOTP)))
	mux.HandleFunc("POST /api/otp/email/verify", cors(verifyLimiter.Middleware(otpHandler.VerifyEmailOTP)))
	mux.HandleFunc("POST /api/otp/email/check-verified", cors(otpHandler.CheckVerified))
	mux.HandleFunc("POST /api/application/check-email", cors(otpHandler.CheckEmail))

	mux.HandleFunc("POST /api/application/personal-details", cors(appHandler.PersonalDetails))
	mux.HandleFunc("GET /api/application/{id}", cors(appHandler.Get))
	mux.HandleFunc("PUT /api/application/{id}/insurance", cors(appHandler.SelectInsurance))
	mux.HandleFunc("PUT /api/application/{id}/payment", cors(appHandler.RecordPayment))
	mux.HandleFunc("POST /api/application/{id}/submit", cors(appHandler.Submit))
	mux.HandleFunc("POST /api/application/{id}/enroll", cors(appHandler.Enroll))
	mux.HandleFunc("POST /api/application/{id}/upload-bill", cors(appHandler.UploadBill))

	mux.HandleFunc("GET /api/insurance/plans", cors(insuranceHandler.Plans))
	mux.HandleFunc("GET /api/insurance/stats", cors(insuranceHandler.Stats))

	mux.HandleFunc("POST /api/payment/create-order/{id}", cors(paymentHandler.CreateOrder))
	mux.HandleFunc("POST /api/payment/process", cors(paymentHandler.Process))
	mux.HandleFunc("POST /api/payment/verify", cors(paymentHandler.Verify))
	mux.HandleFunc("GET /api/payment/status/{id}", cors(paymentHandler.Status))
	mux.HandleFunc("POST /api/payment/refund/{id}", cors(paymentHandler.Refund))

	mux.HandleFunc("GET /api/verification/status/{id}", cors(verificationHandler.Status))

	// Dashboard auth
	mux.HandleFunc("POST /api/dashboard/auth/check-user", cors(authHandler.CheckUser))
	mux.HandleFunc("POST /api/dashboard/auth/send-login-otp", cors(sendLimiter.Middleware(authHandler.SendLoginOTP)))
	mux.HandleFunc("POST /api/dashboard/auth/verify-login-otp", cors(verifyLimiter.Middleware(authHandler.VerifyLoginOTP)))
	mux.HandleFunc("GET /api/dashboard/auth/me", cors(auth(authHandler.Me)))
	mux.HandleFunc("POST /api/dashboard/auth/refresh", cors(authHandler.Refresh))
	mux.HandleFunc("POST /api/dashboard/auth/logout", cors(authHandler.Logout))

	// Dashboard views
	mux.HandleFunc("GET /api/dashboard", cors(auth(dashboardHandler.Overview)))
	mux.HandleFunc("GET /api/dashboard/current-plan", cors(auth(dashboardHandler.CurrentPlan)))
	mux.HandleFunc("GET /api/dashboard/applications", cors(auth(dashboardHandler.Applications)))
	mux.HandleFunc("GET /api/dashboard/payments", cors(auth(dashboardHandler.Payments)))
	mux.HandleFunc("GET /api/dashboard/monthly-payments", cors(auth(dashboardHandler.MonthlyPayments)))
	mux.HandleFunc("GET /api/dashboard/verification-status", cors(auth(dashboardHandler.VerificationStatus)))
	mux.HandleFunc("GET /api/dashboard/masked-pii", cors(auth(dashboardHandler.MaskedPII)))

	// Serve locally stored bill photos
	if local, ok := fileStore.(*storage.LocalStore); ok {
		mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir()))))
	}

	fmt.Printf("Server starting on port %s...\n", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, utils.LatencyMiddleware(mux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// selectGateway picks the live gateway when Razorpay credentials exist. The
// dummy gateway is only ever selected outside production.
func selectGateway(cfg *config.Config) (payment.Gateway, error) {
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		log.Println("Payment gateway: Razorpay")
		return payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret), nil
	}
	if cfg.IsProduction() && cfg.PaymentEnabled {
		return nil, fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set in production")
	}
	log.Println("Payment gateway: dummy (no Razorpay credentials)")
	return payment.NewDummyGateway(), nil
}

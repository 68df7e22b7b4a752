package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vapeguard/insurance-api/config"
	"github.com/vapeguard/insurance-api/models"
)

func TestPaymentShapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     paymentDetailsRequest
		wantErr bool
	}{
		{"upi with valid id", paymentDetailsRequest{PaymentMethod: "upi", UPIID: "x@paytm"}, false},
		{"upi missing id", paymentDetailsRequest{PaymentMethod: "upi"}, true},
		{"phonepe with valid id", paymentDetailsRequest{PaymentMethod: "phonepe", UPIID: "user.name@ybl"}, false},
		{"gpay with bad id", paymentDetailsRequest{PaymentMethod: "gpay", UPIID: "no-at-sign"}, true},
		{"paytm with numeric provider", paymentDetailsRequest{PaymentMethod: "paytm", UPIID: "user@123"}, true},
		{"netbanking complete", paymentDetailsRequest{PaymentMethod: "netbanking", BankName: "HDFC", AccountNumber: "123456789012"}, false},
		{"netbanking missing bank", paymentDetailsRequest{PaymentMethod: "netbanking", AccountNumber: "123456789012"}, true},
		{"netbanking short account", paymentDetailsRequest{PaymentMethod: "netbanking", BankName: "HDFC", AccountNumber: "12345678"}, true},
		{"netbanking non-numeric account", paymentDetailsRequest{PaymentMethod: "netbanking", BankName: "HDFC", AccountNumber: "12345678901a"}, true},
		{"card needs nothing extra", paymentDetailsRequest{PaymentMethod: "card"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := paymentShapeErrors(&tt.req)
			if (len(details) > 0) != tt.wantErr {
				t.Errorf("paymentShapeErrors(%+v) = %v, wantErr %v", tt.req, details, tt.wantErr)
			}
		})
	}
}

func TestRecordPaymentAllowed(t *testing.T) {
	allowed := map[string]bool{
		models.StatusDraft:          true,
		models.StatusSubmitted:      true,
		models.StatusUnderReview:    false,
		models.StatusApproved:       false,
		models.StatusRejected:       false,
		models.StatusPaymentPending: false,
		models.StatusCompleted:      false,
		models.StatusEnrolled:       false,
	}
	for status, want := range allowed {
		if got := recordPaymentAllowed(status); got != want {
			t.Errorf("recordPaymentAllowed(%q) = %v, want %v", status, got, want)
		}
	}
}

func newBillUploadRequest(t *testing.T, size int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("billPhoto", "bill.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte("a"), size)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/application/64f1c2d3e4a5b6c7d8e9f0a1/upload-bill", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetPathValue("id", "64f1c2d3e4a5b6c7d8e9f0a1")
	return req
}

func TestUploadBillRejectsOversizeFile(t *testing.T) {
	// Nil store and storage: an oversize upload must be rejected before the
	// handler reaches either, so nothing is ever persisted for it.
	h := NewApplicationHandler(nil, nil, &config.Config{BillPhotoEnabled: true})

	rec := httptest.NewRecorder()
	h.UploadBill(rec, newBillUploadRequest(t, int(models.MaxBillPhotoSize)+1))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "5MB") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestUploadBillRejectsNonImage(t *testing.T) {
	// multipart.CreateFormFile marks parts application/octet-stream.
	h := NewApplicationHandler(nil, nil, &config.Config{BillPhotoEnabled: true})

	rec := httptest.NewRecorder()
	h.UploadBill(rec, newBillUploadRequest(t, 1024))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "image") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestUploadBillFeatureDisabled(t *testing.T) {
	h := NewApplicationHandler(nil, nil, &config.Config{BillPhotoEnabled: false})

	rec := httptest.NewRecorder()
	h.UploadBill(rec, newBillUploadRequest(t, 1024))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), models.CodeFeatureDisabled) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestPaymentShapeErrorsNetbankingReportsBoth(t *testing.T) {
	details := paymentShapeErrors(&paymentDetailsRequest{PaymentMethod: "netbanking"})
	if len(details) != 2 {
		t.Fatalf("expected both bankName and accountNumber errors, got %v", details)
	}
	if !strings.Contains(details[0], "bankName") || !strings.Contains(details[1], "accountNumber") {
		t.Errorf("unexpected detail messages: %v", details)
	}
}

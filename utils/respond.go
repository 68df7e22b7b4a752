package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vapeguard/insurance-api/models"
)

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already out; nothing left to do but note it.
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

// RespondData wraps the payload in the success envelope.
func RespondData(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, models.Response{Success: true, Data: data})
}

// RespondError sends a failure envelope and logs the message to the provided
// builder. If logger is nil, it prints to stdout.
func RespondError(w http.ResponseWriter, logger *strings.Builder, status int, message, code string) {
	if logger != nil {
		AddToLogMessage(logger, message)
	} else {
		fmt.Println("[Error]", message)
	}
	RespondJSON(w, status, models.Response{Success: false, Error: message, Code: code})
}

// RespondValidationError sends a 400 with field-level detail lines.
func RespondValidationError(w http.ResponseWriter, logger *strings.Builder, message string, details []string) {
	if logger != nil {
		AddToLogMessage(logger, message)
	}
	RespondJSON(w, http.StatusBadRequest, models.Response{
		Success: false,
		Error:   message,
		Code:    models.CodeValidationFailed,
		Details: details,
	})
}

// AddToLogMessage appends one line to a per-request log accumulator.
func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {
	if logMessagesBuilder.Len() == logMessagesBuilder.Cap() {
		logMessagesBuilder.Grow(len(strToAdd))
	}
	logMessagesBuilder.WriteString(strToAdd)
	logMessagesBuilder.WriteString(";")
	logMessagesBuilder.WriteString("\n")
}

// LatencyMiddleware logs the duration of each request
func LatencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		fmt.Printf("[LATENCY] %s %s - %v\n", r.Method, r.URL.Path, duration)
	})
}

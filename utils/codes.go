package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thanhpk/randstr"
)

// GenerateOTP returns a 6-digit numeric code from crypto/rand.
func GenerateOTP() string {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand never fails on supported platforms; fall back to
			// the nanosecond clock rather than panicking mid-request.
			sb.WriteString(strconv.Itoa(time.Now().Nanosecond() % 10))
			continue
		}
		sb.WriteString(n.String())
	}
	return sb.String()
}

// NewApplicationNumber builds a VG-prefixed, human-quotable application
// number: base-36 timestamp plus a random tail. Uniqueness is enforced by
// the index on applications.application_number.
func NewApplicationNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return "VG" + ts + strings.ToUpper(randstr.String(4))
}

// NewTransactionID returns the lazily-assigned payment transaction id.
func NewTransactionID() string {
	return fmt.Sprintf("TXN%s", strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:20])
}

// NewReceiptID returns a receipt reference for gateway orders.
func NewReceiptID() string {
	return "rcpt_" + uuid.NewString()
}

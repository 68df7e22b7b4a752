package utils

import "strings"

// Masking rules for PII shown on the dashboard. Inputs that are too short to
// mask meaningfully are returned fully asterisked.

// MaskEmail keeps the first two characters of the local part and the domain.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return strings.Repeat("*", len(email))
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + domain
	}
	return local[:2] + strings.Repeat("*", len(local)-2) + domain
}

// MaskPhone keeps the last four digits.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// MaskPAN keeps the first two and last two characters.
func MaskPAN(pan string) string {
	if len(pan) <= 4 {
		return strings.Repeat("*", len(pan))
	}
	return pan[:2] + strings.Repeat("*", len(pan)-4) + pan[len(pan)-2:]
}

// MaskAadhaar keeps the last four digits.
func MaskAadhaar(aadhaar string) string {
	return MaskPhone(aadhaar)
}

// MaskAccountNumber keeps the last four digits.
func MaskAccountNumber(account string) string {
	return MaskPhone(account)
}

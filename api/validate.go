package api

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	phoneRe   = regexp.MustCompile(`^[6-9]\d{9}$`)
	upiRe     = regexp.MustCompile(`^[\w.\-]+@[a-zA-Z]{2,}$`)
	accountRe = regexp.MustCompile(`^\d{9,18}$`)
)

// validationDetails flattens validator errors into field-level lines.
func validationDetails(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	var details []string
	for _, fe := range errs {
		details = append(details, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return details
}

// validAge checks the applicant is between 18 and 100 years old (inclusive)
// at the given instant.
func validAge(dob, at time.Time) bool {
	years := at.Year() - dob.Year()
	if dob.AddDate(years, 0, 0).After(at) {
		years--
	}
	return years >= 18 && years <= 100
}

// validIndianMobile checks the 10-digit Indian mobile format.
func validIndianMobile(phone string) bool {
	return phoneRe.MatchString(phone)
}

// validUPIID checks the handle@provider shape.
func validUPIID(id string) bool {
	return upiRe.MatchString(id)
}

// validAccountNumber checks a 9-18 digit bank account number.
func validAccountNumber(account string) bool {
	return accountRe.MatchString(account)
}

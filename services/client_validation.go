package services

import (
	"regexp"
	"strings"
)

var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ClientStatuses lists the allowed values of clients.status.
var ClientStatuses = []string{"lead", "active", "inactive"}

// ValidateGSTIN validates a GSTIN (15-character alphanumeric).
func ValidateGSTIN(gstin string) bool {
	gstin = strings.TrimSpace(strings.ToUpper(gstin))
	if gstin == "" {
		return true
	}
	return len(gstin) == 15 && gstinPattern.MatchString(gstin)
}

// ValidatePhone validates an Indian mobile number (10 digits starting with 6-9).
func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return true
	}
	return len(phone) == 10 && phonePattern.MatchString(phone)
}

// ValidateEmail validates an email address format.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return true
	}
	return emailPattern.MatchString(email)
}

// ValidateClient checks submitted client fields and returns a map of
// field -> error message for any violations.
func ValidateClient(fields map[string]string) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(fields["name"]) == "" {
		errors["name"] = "Name is required"
	}
	if v := fields["gstin"]; v != "" && !ValidateGSTIN(v) {
		errors["gstin"] = "Invalid GSTIN format (expected: 15-character, e.g., 27AAPFU0939F1ZV)"
	}
	if v := fields["phone"]; v != "" && !ValidatePhone(v) {
		errors["phone"] = "Invalid phone number (expected: 10 digits starting with 6-9)"
	}
	if v := fields["email"]; v != "" && !ValidateEmail(v) {
		errors["email"] = "Invalid email format"
	}
	if v := fields["status"]; v != "" && !contains(ClientStatuses, v) {
		errors["status"] = "Status must be one of lead, active or inactive"
	}

	return errors
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

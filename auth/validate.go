package auth

import (
	"strings"
	"unicode"

	"github.com/vTempo/afroditis-delicacies/models"
)

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword enforces the sign-up password rules.
func ValidatePassword(password string) error {
	if len([]rune(password)) < 6 {
		return models.Invalid("password", "Password must be at least 6 characters long")
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		return models.Invalid("password", "Password must contain at least one uppercase letter")
	}
	if !strings.ContainsAny(password, "0123456789") {
		return models.Invalid("password", "Password must contain at least one number")
	}
	if !strings.ContainsAny(password, passwordSpecials) {
		return models.Invalid("password", "Password must contain at least one special character (!@#$%^&*...)")
	}
	return nil
}

// ValidatePhoneNumber accepts any formatting of a 10-digit US number.
func ValidatePhoneNumber(phone string) error {
	digits := phoneDigits(phone)
	if len(digits) != 10 {
		return models.Invalid("phoneNumber", "Phone number must be 10 digits (e.g., (555) 123-4567)")
	}
	if digits[0] == '0' || digits[0] == '1' {
		return models.Invalid("phoneNumber", "Phone number cannot start with 0 or 1")
	}
	return nil
}

// E164 formats a valid US phone number for Firebase.
func E164(phone string) string {
	return "+1" + phoneDigits(phone)
}

func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

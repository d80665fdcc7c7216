package auth

import (
	"errors"

	fbauth "firebase.google.com/go/auth"
	"github.com/vTempo/afroditis-delicacies/models"
)

// ErrorMessage turns an auth failure into the text shown to the customer.
func ErrorMessage(err error) string {
	var ve *models.ValidationError
	var pe *models.PermissionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &pe):
		return "This account has been disabled. Please contact support."
	case fbauth.IsEmailAlreadyExists(err):
		return "This email is already registered. Please sign in or use a different email."
	case fbauth.IsInvalidEmail(err):
		return "Invalid email address. Please check and try again."
	case fbauth.IsUserNotFound(err):
		return "No account found with this email. Please check or sign up."
	case fbauth.IsPhoneNumberAlreadyExists(err):
		return "This phone number is already registered to another account."
	case fbauth.IsIDTokenRevoked(err):
		return "This operation requires recent authentication. Please sign in again."
	}
	return "An error occurred. Please try again."
}

// IdentityError keeps caller mistakes reported by Firebase as validation
// errors and wraps everything else as a backend failure.
func IdentityError(op string, err error) error {
	switch {
	case fbauth.IsEmailAlreadyExists(err), fbauth.IsInvalidEmail(err):
		return models.Invalid("email", ErrorMessage(err))
	case fbauth.IsPhoneNumberAlreadyExists(err):
		return models.Invalid("phoneNumber", ErrorMessage(err))
	case fbauth.IsUserNotFound(err):
		return models.NotFound("account", "")
	}
	return models.StoreError(op, err)
}


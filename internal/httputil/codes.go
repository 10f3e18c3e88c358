package httputil

// Machine-readable error codes returned alongside human-readable messages.
// Frontends should branch on these, never on message text.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeInternalError      = "internal_error"

	CodeEmailRequired      = "email_required"
	CodePasswordRequired   = "password_required"
	CodePasswordTooShort   = "password_too_short"
	CodeInvalidEmailFormat = "invalid_email_format"
	CodeEmailAlreadyExists = "email_already_exists"

	CodeInvalidCredentials = "invalid_credentials"
	CodeMissingAuth        = "missing_auth"
	CodeInvalidAuthHeader  = "invalid_auth_header"
	CodeInvalidToken       = "invalid_token"
	CodeTokenExpired       = "token_expired"
	CodeSessionRevoked     = "session_revoked"

	CodeEmailNotFound     = "email_not_found"
	CodeInvalidResetToken = "invalid_reset_token"
	CodeEmailDeliveryFail = "email_delivery_failed"

	CodeRegNumberRequired = "reg_number_required"
	CodeContactNotFound   = "contact_not_found"
)

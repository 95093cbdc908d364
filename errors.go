package claimsx

import "fmt"

// ErrorCode represents claims error categories.
type ErrorCode string

const (
	ErrCodeSchemaConflict   ErrorCode = "schema_conflict"
	ErrCodeMalformedClaim   ErrorCode = "malformed_claim"
	ErrCodeMissingClaim     ErrorCode = "missing_claim"
	ErrCodeExpired          ErrorCode = "token_expired"
	ErrCodeNotYetValid      ErrorCode = "token_not_yet_valid"
	ErrCodeIssuerMismatch   ErrorCode = "issuer_mismatch"
	ErrCodeSubjectMismatch  ErrorCode = "subject_mismatch"
	ErrCodeAudienceMismatch ErrorCode = "audience_mismatch"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeSchemaConflict:   "Registered claim name used as extension",
	ErrCodeMalformedClaim:   "Malformed registered claim",
	ErrCodeMissingClaim:     "Required claim missing",
	ErrCodeExpired:          "Token expired",
	ErrCodeNotYetValid:      "Token not yet valid",
	ErrCodeIssuerMismatch:   "Issuer mismatch",
	ErrCodeSubjectMismatch:  "Subject mismatch",
	ErrCodeAudienceMismatch: "Audience mismatch",
}

// Error wraps claims errors with a stable code, the claim name involved
// when one applies, and an optional underlying cause.
type Error struct {
	Code    ErrorCode
	Claim   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := e.Message
	if base == "" {
		base = string(e.Code)
	}
	if e.Claim != "" {
		base = fmt.Sprintf("%s: %q", base, e.Claim)
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Err: err}
}

func newClaimError(code ErrorCode, claim string, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Claim: claim, Message: msg, Err: err}
}

package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Business error codes. Each maps to exactly one HTTP status in StatusFor.
const (
	CodeValidation        = "validation_error"
	CodeDoctorNotFound    = "doctor_not_found"
	CodeDoctorUnavailable = "doctor_unavailable"
	CodeSlotTaken         = "slot_taken"
	CodeNotFound          = "appointment_not_found"
	CodePatientNotFound   = "patient_not_found"
	CodeForbidden         = "forbidden"
	CodeInvalidTransition = "invalid_transition"
	CodeInvalidCredential = "invalid_credentials"
	CodeEmailTaken        = "email_already_exists"
	CodeWindowNotFound    = "unavailability_not_found"
)

type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// IsUniqueViolation reports whether err came from a unique index rejecting
// a write, on either postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// IsExclusionConflict matches postgres exclusion constraint violations.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01"
	}
	return false
}

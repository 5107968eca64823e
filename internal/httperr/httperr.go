package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

var defaultMessages = map[string]string{
	CodeValidation:        "Invalid request.",
	CodeDoctorNotFound:    "Doctor not found or inactive.",
	CodeDoctorUnavailable: "Doctor is not available at the requested time.",
	CodeSlotTaken:         "The requested time slot is already booked.",
	CodeNotFound:          "Appointment not found.",
	CodePatientNotFound:   "Patient not found.",
	CodeForbidden:         "You are not allowed to access this appointment.",
	CodeInvalidTransition: "Status change not allowed.",
	CodeInvalidCredential: "Invalid credentials.",
	CodeEmailTaken:        "Email already registered.",
	CodeWindowNotFound:    "Unavailability window not found.",
}

func StatusFor(code string) int {
	switch code {
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeDoctorNotFound, CodePatientNotFound, CodeWindowNotFound:
		return http.StatusNotFound
	case CodeInvalidCredential:
		return http.StatusUnauthorized
	case CodeEmailTaken:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// Respond writes err to the client. Business errors keep their code and
// message; anything else becomes a generic 500 and reports false so the
// caller can log the detail.
func Respond(c *gin.Context, err error) bool {
	be, ok := AsBusiness(err)
	if !ok {
		Internal(c, "internal_error", "Internal server error.")
		return false
	}

	msg := be.Message
	if msg == "" {
		msg = defaultMessages[be.Code]
	}
	Write(c, StatusFor(be.Code), be.Code, msg)
	return true
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func TooManyRequests(c *gin.Context, code, message string) {
	Write(c, http.StatusTooManyRequests, code, message)
}

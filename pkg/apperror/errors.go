package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger Business Logic (LEDG) ----

func ErrUnauthorized() *AppError {
	return New("LEDG_001", "Caller is not the program administrator", http.StatusForbidden)
}

func ErrUnknownBeneficiary() *AppError {
	return New("LEDG_002", "Account has not been onboarded as a beneficiary", http.StatusNotFound)
}

func ErrInvalidAmount() *AppError {
	return New("LEDG_003", "Invalid amount", http.StatusBadRequest)
}

func ErrInvalidCategory() *AppError {
	return New("LEDG_004", "Unknown vendor category", http.StatusBadRequest)
}

func ErrInsufficientBalance() *AppError {
	return New("LEDG_005", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrDailyLimitExceeded() *AppError {
	return New("LEDG_006", "Daily spending limit exceeded", http.StatusUnprocessableEntity)
}

func ErrNotFound(entity string) *AppError {
	return New("LEDG_007", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrParticipantSuspended() *AppError {
	return New("AUTH_004", "Participant account is suspended", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a LEDG_003-style validation error.
func Validation(message string) *AppError {
	return New("LEDG_003", message, http.StatusBadRequest)
}

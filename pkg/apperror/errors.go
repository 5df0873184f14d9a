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

// ---- Validation (VAL) ----

// Validation reports malformed or inconsistent input. Never retried.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_002", "Amount must be greater than zero", http.StatusBadRequest)
}

func ErrChargeMismatch() *AppError {
	return New("VAL_003", "Charges do not match the service catalog", http.StatusBadRequest)
}

func ErrBalanceNotCovered() *AppError {
	return New("VAL_004", "Received payments do not cover the total charge", http.StatusBadRequest)
}

// ---- Ledger business rules (LED) ----

func ErrNotFound(entity string) *AppError {
	return New("LED_404", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrAccessDenied() *AppError {
	return New("LED_403", "Wallet is not shared and not assigned to you", http.StatusForbidden)
}

func ErrInsufficientBalance() *AppError {
	return New("LED_402", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrConflict(message string) *AppError {
	return New("LED_409", message, http.StatusConflict)
}

func ErrSameWallet() *AppError {
	return New("LED_400", "Source and destination wallets must differ", http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

// Persistence wraps an underlying storage failure. The triggering operation
// has already been rolled back in full when this is returned.
func Persistence(err error) *AppError {
	return Wrap("SYS_001", "Internal storage error", http.StatusInternalServerError, err)
}

// InternalError wraps any other internal failure.
func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal server error", http.StatusInternalServerError, err)
}

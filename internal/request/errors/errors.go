package requesterrors

import (
	"net/http"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owner can cancel a request",
		http.StatusForbidden,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"request is no longer pending",
		http.StatusConflict,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotInTeam = apperror.New(
		apperror.CodeInvalidInput,
		"leave type does not belong to this team",
		http.StatusBadRequest,
	)
)

// Violation is a business-rule rejection. Distinct from bad input: the
// request is well formed, the rules just say no.
func Violation(message string) *apperror.AppError {
	return apperror.New(
		apperror.CodeRuleViolation,
		message,
		http.StatusUnprocessableEntity,
	)
}

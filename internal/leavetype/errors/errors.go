package leavetypeerrors

import (
	"net/http"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrInvalidDaysPerYear = apperror.New(
		apperror.CodeInvalidInput,
		"days_per_year must be a positive whole number",
		http.StatusBadRequest,
	)
)

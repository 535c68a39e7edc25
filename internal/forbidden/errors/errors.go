package forbiddenerrors

import (
	"net/http"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrDateNotForbidden = apperror.New(
		apperror.CodeNotFound,
		"this date is not forbidden",
		http.StatusNotFound,
	)
)

package autherrors

import (
	"net/http"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
)

var (
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"token expired",
		http.StatusUnauthorized,
	)
	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"you do not have permission to perform this action",
		http.StatusForbidden,
	)
	ErrInvalidExternalID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid external id",
		http.StatusBadRequest,
	)
	ErrHandleRequired = apperror.New(
		apperror.CodeInvalidInput,
		"handle is required",
		http.StatusBadRequest,
	)
)

package decisionerrors

import (
	"net/http"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
)

var (
	ErrNoActiveAction = apperror.New(
		apperror.CodeInvalidState,
		"no decision in progress, pick a request first",
		http.StatusConflict,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrRequestNotPending = apperror.New(
		apperror.CodeInvalidState,
		"request is no longer pending",
		http.StatusConflict,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"action must be approve or reject",
		http.StatusBadRequest,
	)
)

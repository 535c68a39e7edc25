package membererrors

import (
	"net/http"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
)

var (
	ErrMemberNotFound = apperror.New(
		apperror.CodeNotFound,
		"member not found",
		http.StatusNotFound,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"unknown role",
		http.StatusBadRequest,
	)
	ErrAlreadyInOtherTeam = apperror.New(
		apperror.CodeConflict,
		"this member already belongs to another team and must leave it first",
		http.StatusConflict,
	)
	ErrCannotRemoveSelf = apperror.New(
		apperror.CodeInvalidInput,
		"you cannot remove yourself from the team",
		http.StatusBadRequest,
	)
	ErrNotInTeam = apperror.New(
		apperror.CodeNotFound,
		"member does not belong to this team",
		http.StatusNotFound,
	)
)

package teamerrors

import (
	"net/http"

	"github.com/chikibriki1888/telegram-vacation-bot/internal/shared/apperror"
)

var (
	ErrTeamNotFound = apperror.New(
		apperror.CodeNotFound,
		"team not found",
		http.StatusNotFound,
	)
	ErrTeamNameTaken = apperror.New(
		apperror.CodeConflict,
		"a team with this name already exists",
		http.StatusConflict,
	)
	ErrInvalidTeamID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid team id",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"unknown role",
		http.StatusBadRequest,
	)
	ErrAdminRoleRequired = apperror.New(
		apperror.CodeInvalidInput,
		"team creator must pick an admin role",
		http.StatusBadRequest,
	)
	ErrInvalidOverlapPolicy = apperror.New(
		apperror.CodeInvalidInput,
		"overlap policy must be one of allow_all, deny_all, deny_same_role",
		http.StatusBadRequest,
	)
	ErrInvalidSettingValue = apperror.New(
		apperror.CodeInvalidInput,
		"setting value must be a positive whole number",
		http.StatusBadRequest,
	)
)

package auth

import "github.com/chikibriki1888/telegram-vacation-bot/internal/member"

type ContactRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
	Handle     string `json:"handle" binding:"required"`
	FullName   string `json:"full_name"`
}

type AuthResponse struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	Member       member.MemberResponse `json:"member"`
}

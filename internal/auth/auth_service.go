package auth

import (
	"context"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	autherrors "github.com/chikibriki1888/telegram-vacation-bot/internal/auth/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/member"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	// Contact resolves (or creates) the caller's member record and
	// issues tokens for it. It is the only way in: there are no
	// passwords, identity comes from the upstream messenger.
	Contact(ctx context.Context, req ContactRequest) (AuthResponse, error)

	RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error)
}

type service struct {
	members member.Service
	logger  *zap.Logger
}

func NewService(members member.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{members: members, logger: l}
}

func (s *service) Contact(ctx context.Context, req ContactRequest) (AuthResponse, error) {
	m, err := s.members.Contact(ctx, req.ExternalID, req.Handle, req.FullName)
	if err != nil {
		s.logger.Warn("contact resolve failed",
			zap.String("external_id", req.ExternalID),
			zap.Error(err),
		)
		return AuthResponse{}, err
	}

	return s.issueTokens(m)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return AuthResponse{}, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	teamID, _ := claims["team_id"].(string)
	if userID == "" || teamID == "" {
		return AuthResponse{}, autherrors.ErrInvalidToken
	}

	// Re-read the member so a role or team change since issuance is
	// reflected in the new token.
	m, err := s.members.GetByID(ctx, teamID, userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidToken
	}

	return s.issueTokens(m)
}

func (s *service) issueTokens(m member.MemberResponse) (AuthResponse, error) {
	accessToken, err := s.generateToken(m, time.Hour*24)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return AuthResponse{}, err
	}
	refreshToken, err := s.generateToken(m, time.Hour*24*7)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Member:       m,
	}, nil
}

func (s *service) generateToken(m member.MemberResponse, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": m.ID,
		"team_id": m.TeamID,
		"handle":  m.Handle,
		"role":    m.Role,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

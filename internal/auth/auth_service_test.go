package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	autherrors "github.com/chikibriki1888/telegram-vacation-bot/internal/auth/errors"
	"github.com/chikibriki1888/telegram-vacation-bot/internal/member"
	membererrors "github.com/chikibriki1888/telegram-vacation-bot/internal/member/errors"
)

type fakeMembers struct {
	contactFn func(ctx context.Context, externalID, handle, fullName string) (member.MemberResponse, error)
	getByIDFn func(ctx context.Context, teamID, memberID string) (member.MemberResponse, error)
}

func (f *fakeMembers) Contact(ctx context.Context, externalID, handle, fullName string) (member.MemberResponse, error) {
	return f.contactFn(ctx, externalID, handle, fullName)
}
func (f *fakeMembers) Invite(ctx context.Context, teamID string, req member.InviteRequest) (member.MemberResponse, error) {
	return member.MemberResponse{}, nil
}
func (f *fakeMembers) Remove(ctx context.Context, teamID, actorID, memberID string) error {
	return nil
}
func (f *fakeMembers) LeaveTeam(ctx context.Context, userID string) error { return nil }
func (f *fakeMembers) SetRole(ctx context.Context, teamID, memberID string, req member.SetRoleRequest) (member.MemberResponse, error) {
	return member.MemberResponse{}, nil
}
func (f *fakeMembers) ListTeam(ctx context.Context, teamID string, year int) ([]member.MemberWithUsageResponse, error) {
	return nil, nil
}
func (f *fakeMembers) GetByID(ctx context.Context, teamID, memberID string) (member.MemberResponse, error) {
	return f.getByIDFn(ctx, teamID, memberID)
}

func testMember() member.MemberResponse {
	return member.MemberResponse{
		ID:         uuid.NewString(),
		ExternalID: "tg-100",
		Handle:     "ivan",
		FullName:   "Ivan Petrov",
		Role:       "MANAGER",
		TeamID:     uuid.NewString(),
	}
}

func TestService_Contact_IssuesTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	m := testMember()
	members := &fakeMembers{
		contactFn: func(ctx context.Context, externalID, handle, fullName string) (member.MemberResponse, error) {
			assert.Equal(t, "tg-100", externalID)
			return m, nil
		},
	}
	svc := NewService(members)

	resp, err := svc.Contact(context.Background(), ContactRequest{
		ExternalID: "tg-100",
		Handle:     "ivan",
		FullName:   "Ivan Petrov",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, m.ID, resp.Member.ID)

	// The access token carries the identity claims the middleware needs.
	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, m.ID, claims["user_id"])
	assert.Equal(t, m.TeamID, claims["team_id"])
	assert.Equal(t, "MANAGER", claims["role"])
}

func TestService_RefreshToken_ReflectsRoleChange(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	m := testMember()
	members := &fakeMembers{
		contactFn: func(ctx context.Context, externalID, handle, fullName string) (member.MemberResponse, error) {
			return m, nil
		},
		getByIDFn: func(ctx context.Context, teamID, memberID string) (member.MemberResponse, error) {
			promoted := m
			promoted.Role = "TEAM_LEAD"
			return promoted, nil
		},
	}
	svc := NewService(members)

	issued, err := svc.Contact(context.Background(), ContactRequest{ExternalID: "tg-100", Handle: "ivan"})
	assert.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), issued.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, "TEAM_LEAD", refreshed.Member.Role)
}

func TestService_RefreshToken_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	svc := NewService(&fakeMembers{})

	_, err := svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestService_RefreshToken_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := jwt.MapClaims{
		"user_id": uuid.NewString(),
		"team_id": uuid.NewString(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	svc := NewService(&fakeMembers{})

	_, err = svc.RefreshToken(context.Background(), expired)
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestService_RefreshToken_MemberGone(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	m := testMember()
	members := &fakeMembers{
		contactFn: func(ctx context.Context, externalID, handle, fullName string) (member.MemberResponse, error) {
			return m, nil
		},
		getByIDFn: func(ctx context.Context, teamID, memberID string) (member.MemberResponse, error) {
			return member.MemberResponse{}, membererrors.ErrNotInTeam
		},
	}
	svc := NewService(members)

	issued, err := svc.Contact(context.Background(), ContactRequest{ExternalID: "tg-100", Handle: "ivan"})
	assert.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), issued.RefreshToken)
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

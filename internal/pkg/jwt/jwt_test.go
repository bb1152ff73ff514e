package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewService("secret", time.Minute)

	token, err := svc.GenerateAccessToken(42, RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateAccessTokenRejects(t *testing.T) {
	svc := NewService("secret", time.Minute)
	other := NewService("other", time.Minute)
	expired := NewService("secret", -time.Minute)

	foreign, _ := other.GenerateAccessToken(1, RoleUser)
	stale, _ := expired.GenerateAccessToken(1, RoleUser)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "garbage", token: "not-a-token", want: ErrInvalidToken},
		{name: "wrong secret", token: foreign, want: ErrInvalidToken},
		{name: "expired", token: stale, want: ErrExpiredToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.ValidateAccessToken(tc.token); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

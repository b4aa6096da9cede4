package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/ai-flowgen/pkg/errors"
)

const testUserID = "2f1c6a4e-8c1b-4a55-9a0e-5d3c1b7e9f10"

func TestResolver_ValidToken(t *testing.T) {
	r := NewResolver(Config{Secret: "test-secret"}, newTestLogger())
	token := signToken(t, "test-secret", testUserID, time.Now().Add(time.Hour))

	identity, err := r.Resolve(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, testUserID, identity.UserID)
}

func TestResolver_Rejects(t *testing.T) {
	future := time.Now().Add(time.Hour)
	cases := map[string]string{
		"missing header":   "",
		"wrong scheme":     "Basic " + signToken(t, "test-secret", testUserID, future),
		"empty token":      "Bearer ",
		"bad signature":    "Bearer " + signToken(t, "other-secret", testUserID, future),
		"expired":          "Bearer " + signToken(t, "test-secret", testUserID, time.Now().Add(-time.Minute)),
		"subject not uuid": "Bearer " + signToken(t, "test-secret", "42", future),
		"garbage":          "Bearer not.a.jwt",
	}
	r := NewResolver(Config{Secret: "test-secret"}, newTestLogger())
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), header)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, CodeUnauthenticated))
		})
	}
}

func TestResolver_UnverifiedModeStillChecksSubject(t *testing.T) {
	r := NewResolver(Config{}, newTestLogger())

	identity, err := r.Resolve(context.Background(), "bearer "+signToken(t, "anything", testUserID, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.Equal(t, testUserID, identity.UserID)

	_, err = r.Resolve(context.Background(), "Bearer "+signToken(t, "anything", "", time.Now().Add(time.Hour)))
	require.True(t, apperrors.IsCode(err, CodeUnauthenticated))
}

func signToken(t *testing.T, secret, subject string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

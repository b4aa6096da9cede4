package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/ai-flowgen/pkg/errors"
)

// Resolver turns an Authorization header into an Identity.
type Resolver interface {
	Resolve(ctx context.Context, authorization string) (Identity, error)
}

type resolver struct {
	cfg    Config
	parser *jwt.Parser
	now    func() time.Time
}

// NewResolver constructs a Resolver that accepts HS256 bearer tokens whose
// subject is a user UUID. Expiry is checked against the resolver clock.
func NewResolver(cfg Config, logger *slog.Logger) Resolver {
	if cfg.Secret == "" {
		logger.With("component", "auth.resolver").Warn("auth.jwtSecret not set, bearer tokens are not verified")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	return &resolver{cfg: cfg, parser: parser, now: time.Now}
}

func (r *resolver) Resolve(_ context.Context, authorization string) (Identity, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return Identity{}, apperrors.Wrap(CodeUnauthenticated, "missing bearer token", nil)
	}

	claims := &jwt.RegisteredClaims{}
	if err := r.parse(token, claims); err != nil {
		return Identity{}, apperrors.Wrap(CodeUnauthenticated, "invalid bearer token", err)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(r.now()) {
		return Identity{}, apperrors.Wrap(CodeUnauthenticated, "token expired", nil)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, apperrors.Wrap(CodeUnauthenticated, "token subject is not a user id", err)
	}
	return Identity{UserID: userID.String()}, nil
}

func (r *resolver) parse(token string, claims *jwt.RegisteredClaims) error {
	if r.cfg.Secret == "" {
		_, _, err := r.parser.ParseUnverified(token, claims)
		return err
	}
	parsed, err := r.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(r.cfg.Secret), nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("token invalid")
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

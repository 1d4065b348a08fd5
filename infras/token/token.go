// Package token decides whether a bearer token is a currently-valid,
// correctly-issued credential and extracts the identity claims from it.
package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"evotodo/config"
	"evotodo/infras/jwks"
)

// Asymmetric algorithms only. Tokens minted with a shared secret are never
// accepted on this path, whatever the legacy configuration says.
var allowedAlgorithms = []string{"EdDSA", "ES256", "RS256"}

// Verification failure kinds. Callers must collapse every one of them into
// the same generic 401; the kinds exist for logging and tests only.
var (
	ErrMalformedToken       = errors.New("malformed token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrSignatureMismatch    = errors.New("token signature mismatch")
	ErrUnknownKeyID         = errors.New("token signed with unknown key id")
	ErrIssuerMismatch       = errors.New("token issuer mismatch")
	ErrAudienceMismatch     = errors.New("token audience mismatch")
	ErrMissingSubject       = errors.New("token subject missing")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// Identity is the per-request authenticated-user value consumed by every
// handler downstream of the auth middleware.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

type Verifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

type verifierImpl struct {
	resolver jwks.Resolver
	issuer   string
	audience string
	now      func() time.Time
}

func New(resolver jwks.Resolver, cfg *config.Config) Verifier {
	return &verifierImpl{
		resolver: resolver,
		issuer:   cfg.Auth.FrontendURL,
		audience: cfg.Auth.FrontendURL,
		now:      time.Now,
	}
}

// NewWithClock is New with an injected clock, for expiry tests.
func NewWithClock(resolver jwks.Resolver, issuer, audience string, now func() time.Time) Verifier {
	return &verifierImpl{
		resolver: resolver,
		issuer:   issuer,
		audience: audience,
		now:      now,
	}
}

type idClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Verify is a pure, synchronous decision per request; a failed verification
// never retries.
func (v *verifierImpl) Verify(ctx context.Context, raw string) (Identity, error) {
	claims := &idClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, v.keyFunc(ctx),
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Identity{}, classify(err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, ErrMissingSubject
	}

	return Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

func (v *verifierImpl) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("%w: token header missing kid", ErrMalformedToken)
		}

		return v.resolver.ResolveKey(ctx, kid)
	}
}

// classify maps library and resolver errors onto the verification failure
// kinds. Anything not otherwise classified becomes ErrAuthenticationFailed.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrMalformedToken):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureMismatch
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuerMismatch
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudienceMismatch
	case errors.Is(err, jwks.ErrUnknownKeyID):
		return ErrUnknownKeyID
	default:
		return fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
}

// ExtractTokenFromHeader extracts the bearer token from an Authorization
// header value.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}

	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", errors.New("authorization header must start with 'Bearer '")
	}

	return authHeader[len(prefix):], nil
}

package token_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evotodo/infras/jwks"
	"evotodo/infras/token"
)

const (
	issuer = "https://auth.example.com"
	kid    = "test-key"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// staticResolver hands out keys from a fixed map, no network involved.
type staticResolver map[string]any

func (r staticResolver) ResolveKey(_ context.Context, kid string) (any, error) {
	key, ok := r[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", jwks.ErrKeyResolution, jwks.ErrUnknownKeyID, kid)
	}

	return key, nil
}

type signer struct {
	method     jwt.SigningMethod
	privateKey any
	publicKey  any
}

func newRSASigner(t *testing.T) signer {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return signer{method: jwt.SigningMethodRS256, privateKey: privateKey, publicKey: &privateKey.PublicKey}
}

func newECDSASigner(t *testing.T) signer {
	t.Helper()

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	return signer{method: jwt.SigningMethodES256, privateKey: privateKey, publicKey: &privateKey.PublicKey}
}

func (s signer) sign(t *testing.T, keyID string, claims jwt.Claims) string {
	t.Helper()

	tok := jwt.NewWithClaims(s.method, claims)
	tok.Header["kid"] = keyID

	raw, err := tok.SignedString(s.privateKey)
	require.NoError(t, err)

	return raw
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{issuer},
		ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(fixedNow),
	}
}

func newVerifier(resolver jwks.Resolver) token.Verifier {
	return token.NewWithClock(resolver, issuer, issuer, func() time.Time { return fixedNow })
}

func TestVerifier_ValidRSAToken(t *testing.T) {
	s := newRSASigner(t)
	v := newVerifier(staticResolver{kid: s.publicKey})

	claims := struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		jwt.RegisteredClaims
	}{
		Email:            "user@example.com",
		Name:             "Test User",
		RegisteredClaims: validClaims(),
	}

	identity, err := v.Verify(context.Background(), s.sign(t, kid, claims))
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.Subject)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, "Test User", identity.Name)
}

func TestVerifier_ValidECDSAToken(t *testing.T) {
	s := newECDSASigner(t)
	v := newVerifier(staticResolver{kid: s.publicKey})

	identity, err := v.Verify(context.Background(), s.sign(t, kid, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.Subject)
}

func TestVerifier_RejectsHMACToken(t *testing.T) {
	v := newVerifier(staticResolver{})

	// Symmetric algorithms are off the allowlist regardless of key material.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	tok.Header["kid"] = kid

	raw, err := tok.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifier_ExpiredToken(t *testing.T) {
	s := newRSASigner(t)
	v := newVerifier(staticResolver{kid: s.publicKey})

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(fixedNow.Add(-time.Second))

	_, err := v.Verify(context.Background(), s.sign(t, kid, claims))
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrExpiredToken)
}

func TestVerifier_MissingExpiry(t *testing.T) {
	s := newRSASigner(t)
	v := newVerifier(staticResolver{kid: s.publicKey})

	claims := validClaims()
	claims.ExpiresAt = nil

	_, err := v.Verify(context.Background(), s.sign(t, kid, claims))
	require.Error(t, err)
}

func TestVerifier_IssuerMismatch(t *testing.T) {
	s := newRSASigner(t)
	v := newVerifier(staticResolver{kid: s.publicKey})

	claims := validClaims()
	claims.Issuer = "https://other.example.com"

	_, err := v.Verify(context.Background(), s.sign(t, kid, claims))
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrIssuerMismatch)
}

func TestVerifier_AudienceMismatch(t *testing.T) {
	s := newRSASigner(t)
	v := newVerifier(staticResolver{kid: s.publicKey})

	claims := validClaims()
	claims.Audience = jwt.ClaimStrings{"https://other.example.com"}

	_, err := v.Verify(context.Background(), s.sign(t, kid, claims))
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrAudienceMismatch)
}

func TestVerifier_MissingSubject(t *testing.T) {
	s := newRSASigner(t)
	v := newVerifier(staticResolver{kid: s.publicKey})

	claims := validClaims()
	claims.Subject = "  "

	_, err := v.Verify(context.Background(), s.sign(t, kid, claims))
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrMissingSubject)
}

func TestVerifier_UnknownKeyID(t *testing.T) {
	s := newRSASigner(t)
	v := newVerifier(staticResolver{kid: s.publicKey})

	_, err := v.Verify(context.Background(), s.sign(t, "rotated-away", validClaims()))
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrUnknownKeyID)
}

func TestVerifier_MissingKidHeader(t *testing.T) {
	s := newRSASigner(t)
	v := newVerifier(staticResolver{kid: s.publicKey})

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims())

	raw, err := tok.SignedString(s.privateKey)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifier_WrongKeySignature(t *testing.T) {
	signing := newRSASigner(t)
	other := newRSASigner(t)

	// The resolver returns a key that did not sign the token.
	v := newVerifier(staticResolver{kid: other.publicKey})

	_, err := v.Verify(context.Background(), signing.sign(t, kid, validClaims()))
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrSignatureMismatch)
}

func TestVerifier_GarbageToken(t *testing.T) {
	v := newVerifier(staticResolver{})

	_, err := v.Verify(context.Background(), "not.a.token")
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrMalformedToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme accepted", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "scheme without token", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := token.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

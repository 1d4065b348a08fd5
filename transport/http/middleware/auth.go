package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"evotodo/infras/otel"
	"evotodo/infras/token"
	userService "evotodo/internal/domains/user/service"
	"evotodo/shared/constant"
	"evotodo/shared/failure"
	"evotodo/transport/http/response"
)

const genericAuthMessage = "invalid or expired token"

// Auth validates bearer tokens and attaches the caller identity to the request context.
type Auth interface {
	Auth(next http.Handler) http.Handler
}

type authImpl struct {
	verifier token.Verifier
	users    userService.User
	otel     otel.Otel
}

func NewAuthMiddleware(verifier token.Verifier, users userService.User, otel otel.Otel) Auth {
	return &authImpl{
		verifier: verifier,
		users:    users,
		otel:     otel,
	}
}

// Auth rejects every failure with the same generic message so callers cannot
// probe which validation step broke. The concrete cause goes to the log only.
func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelAuthScopeName, "auth.middleware")

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)

		tokenString, err := token.ExtractTokenFromHeader(authHeader)
		if err != nil {
			m.reject(writer, scope, err)

			return
		}

		identity, err := m.verifier.Verify(ctx, tokenString)
		if err != nil {
			m.reject(writer, scope, err)

			return
		}

		// Mirroring the user row is best effort, a failed upsert never
		// blocks the authenticated request.
		if err := m.users.Mirror(ctx, identity); err != nil {
			log.Warn().Err(err).Str("subject", identity.Subject).Msg("user mirror failed")
		}

		ctx = context.WithValue(ctx, constant.ContextKeyIdentity, identity)

		scope.SetAttribute("auth.subject", identity.Subject)
		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (m *authImpl) reject(writer http.ResponseWriter, scope otel.Scope, cause error) {
	log.Debug().Err(cause).Msg("token rejected")

	err := failure.Unauthorized(genericAuthMessage)
	response.WithError(writer, err)

	scope.TraceError(cause)
	scope.End()
}

// IdentityFromContext returns the identity stored by Auth.
func IdentityFromContext(ctx context.Context) (token.Identity, bool) {
	identity, ok := ctx.Value(constant.ContextKeyIdentity).(token.Identity)

	return identity, ok
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"evotodo/infras/otel"
	"evotodo/infras/token"
	"evotodo/internal/domains/user/model"
	"evotodo/internal/domains/user/repository"
	"evotodo/shared/constant"
)

// User maintains the identity mirror table.
type User interface {
	Mirror(ctx context.Context, identity token.Identity) error
}

type serviceImpl struct {
	repo repository.User
	otel otel.Otel
}

func New(repo repository.User, otel otel.Otel) User {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// Mirror records the verified identity for reference joins. Failures are
// logged and swallowed: the mirror is best-effort and must never block a
// request that already passed verification.
func (s *serviceImpl) Mirror(ctx context.Context, identity token.Identity) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Mirror")
	defer scope.End()

	mod := model.User{
		ID:        identity.Subject,
		CreatedAt: time.Now().UTC(),
	}

	if identity.Email != "" {
		mod.Email = &identity.Email
	}

	if identity.Name != "" {
		mod.Name = &identity.Name
	}

	if err := s.repo.Upsert(ctx, mod); err != nil {
		log.Warn().Err(err).Str("subject", identity.Subject).Msg("failed to mirror user identity")
		scope.TraceError(err)

		return fmt.Errorf("failed to mirror user identity: %w", err)
	}

	return nil
}

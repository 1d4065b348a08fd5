package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"evotodo/infras/otel"
	"evotodo/infras/postgres"
	"evotodo/internal/domains/user/model"
	"evotodo/shared/constant"
	"evotodo/shared/logger"
	gRepo "evotodo/shared/repository"
)

type User interface {
	Upsert(ctx context.Context, model model.User) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Upsert refreshes the mirror row for an identity. Profile claims may change
// between tokens; the row id never does.
func (repo *repositoryImpl) Upsert(ctx context.Context, mod model.User) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.Upsert")
	defer scope.End()

	query := fmt.Sprintf(`INSERT INTO %s (id, email, name, created_at)
		VALUES (:id, :email, :name, :created_at)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name`,
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, mod); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to upsert data (%s): %w", model.EntityName, err)
	}

	return nil
}

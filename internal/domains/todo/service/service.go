package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"evotodo/config"
	"evotodo/infras/otel"
	"evotodo/internal/domains/todo/model"
	"evotodo/internal/domains/todo/model/dto"
	"evotodo/internal/domains/todo/repository"
	"evotodo/shared"
	"evotodo/shared/constant"
	gDto "evotodo/shared/dto"
	"evotodo/shared/failure"
)

// Todo is the ownership-scoped store. Every read/update/delete verifies the
// requesting identity owns the row before acting.
type Todo interface {
	Create(ctx context.Context, owner string, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	List(ctx context.Context, owner string, filter gDto.FilterGroup) ([]dto.TodoResponse, error)
	Get(ctx context.Context, id int64, owner string) (dto.TodoResponse, error)
	Update(ctx context.Context, id int64, owner string, req dto.UpdateTodoRequest) (dto.TodoResponse, error)
	Toggle(ctx context.Context, id int64, owner string) (dto.TodoResponse, error)
	Delete(ctx context.Context, id int64, owner string) error
}

type serviceImpl struct {
	repo repository.Todo
	cfg  *config.Config
	otel otel.Otel
	now  func() time.Time
}

func New(repo repository.Todo, cfg *config.Config, otel otel.Otel) Todo {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// NewWithClock is New with an injected clock, for timestamp assertions in
// tests.
func NewWithClock(repo repository.Todo, cfg *config.Config, otel otel.Otel, now func() time.Time) Todo {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
		now:  now,
	}
}

func (s *serviceImpl) Create(ctx context.Context, owner string, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if strings.TrimSpace(req.Title) == "" {
		return res, failure.BadRequestFromString("title cannot be empty or whitespace only") //nolint:wrapcheck
	}

	mod := req.ToModel(owner, s.now())

	id, err := s.repo.Insert(ctx, mod)
	if err != nil {
		log.Error().Err(err).Msg("failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	mod.ID = id
	res.FromModel(mod)

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, owner string, filter gDto.FilterGroup) (res []dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	scoped := shared.FilterByOwner(owner, model.FieldUserID, model.TableName)
	scoped.Filters = append(scoped.Filters, filter)

	// Newest-created-first, id as tiebreak for rows created the same instant.
	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	models, err := s.repo.GetAll(ctx, params, scoped)
	if err != nil {
		log.Error().Err(err).Msg("failed to list todos")

		return res, fmt.Errorf("failed to list todos: %w", err)
	}

	return dto.TodoResponsesFromModels(models), nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64, owner string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	mod, err := s.getOwned(ctx, id, owner)
	if err != nil {
		return res, err
	}

	res.FromModel(mod)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id int64, owner string, req dto.UpdateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	mod, err := s.getOwned(ctx, id, owner)
	if err != nil {
		return res, err
	}

	now := s.now()
	fields := map[string]any{
		constant.FieldUpdatedAt: now,
	}

	// Only the fields explicitly provided are applied; owner never changes.
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return res, failure.BadRequestFromString("title cannot be empty or whitespace only") //nolint:wrapcheck
		}

		fields[model.FieldTitle] = title
		mod.Title = title
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		fields[model.FieldDescription] = description
		mod.Description = description
	}

	if req.Completed != nil {
		fields[model.FieldCompleted] = *req.Completed
		mod.Completed = *req.Completed
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to update todo")

		return res, fmt.Errorf("failed to update todo: %w", err)
	}

	mod.UpdatedAt = now
	res.FromModel(mod)

	return res, nil
}

func (s *serviceImpl) Toggle(ctx context.Context, id int64, owner string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Toggle")
	defer scope.End()
	defer scope.TraceIfError(err)

	mod, err := s.getOwned(ctx, id, owner)
	if err != nil {
		return res, err
	}

	now := s.now()
	fields := map[string]any{
		model.FieldCompleted:    !mod.Completed,
		constant.FieldUpdatedAt: now,
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to toggle todo")

		return res, fmt.Errorf("failed to toggle todo: %w", err)
	}

	mod.Completed = !mod.Completed
	mod.UpdatedAt = now
	res.FromModel(mod)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64, owner string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err := s.getOwned(ctx, id, owner); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete todo")

		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

// getOwned looks the row up by id alone, then compares owners. The two-step
// check is deliberate: a row that exists under a different owner answers
// forbidden, not found.
func (s *serviceImpl) getOwned(ctx context.Context, id int64, owner string) (model.Todo, error) {
	mod, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get todo")

		return mod, fmt.Errorf("failed to get todo: %w", err)
	}

	if mod.ID == 0 {
		return mod, failure.NotFound("todo not found") //nolint:wrapcheck
	}

	if mod.UserID != owner {
		return mod, failure.Forbidden("not authorized to access this todo") //nolint:wrapcheck
	}

	return mod, nil
}

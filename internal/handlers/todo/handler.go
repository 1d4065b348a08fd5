package todo

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"evotodo/infras/otel"
	"evotodo/internal/domains/todo/model"
	"evotodo/internal/domains/todo/model/dto"
	"evotodo/internal/domains/todo/service"
	"evotodo/shared"
	"evotodo/shared/constant"
	gDto "evotodo/shared/dto"
	"evotodo/shared/failure"
	"evotodo/shared/validator"
	"evotodo/transport/http/middleware"
	"evotodo/transport/http/response"
)

type Handler struct {
	service    service.Todo
	middleware middleware.Auth
	otel       otel.Otel
}

func New(service service.Todo, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/todos", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth)

		routerGroup.Post("/", handler.CreateTodo)
		routerGroup.Get("/", handler.GetTodos)
		routerGroup.Get("/{id}", handler.GetTodoByID)
		routerGroup.Put("/{id}", handler.UpdateTodo)
		routerGroup.Patch("/{id}/toggle", handler.ToggleTodo)
		routerGroup.Delete("/{id}", handler.DeleteTodo)
	})
}

// CreateTodo handles the creation of a new todo item.
// @Summary Create a new todo item
// @Description Create a new todo item owned by the authenticated user.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Create Todo Request"
// @Success 201 {object} dto.TodoResponse "Todo created"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/todos [post]
// @Security BearerAuth
func (handler *Handler) CreateTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTodo")
	defer scope.End()

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		response.WithError(writer, failure.Unauthorized("invalid or expired token"))

		return
	}

	req := dto.CreateTodoRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, identity.Subject, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create todo")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Todo created by " + identity.Subject)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetTodos lists the authenticated user's todo items.
// @Summary List todo items
// @Description List the authenticated user's todos, newest first, with optional filtering.
// @Tags Todo
// @Produce json
// @Param title query string false "Filter by title substring"
// @Param completed query boolean false "Filter by completion status"
// @Success 200 {array} dto.TodoResponse
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/todos [get]
// @Security BearerAuth
func (handler *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("invalid or expired token"))

		return
	}

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if title := r.URL.Query().Get(model.FieldTitle); title != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	if complete := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldCompleted)); complete != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCompleted,
			Operator: gDto.FilterOperatorEq,
			Value:    *complete,
			Table:    model.TableName,
		})
	}

	todos, err := handler.service.List(ctx, identity.Subject, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list todos")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, todos)
}

// GetTodoByID retrieves one of the authenticated user's todos.
// @Summary Get a todo item by ID
// @Tags Todo
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} dto.TodoResponse
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/todos/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodoByID")
	defer scope.End()

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("invalid or expired token"))

		return
	}

	id, err := parseID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	todo, err := handler.service.Get(ctx, id, identity.Subject)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todo by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, todo)
}

// UpdateTodo applies a partial update to one of the authenticated user's todos.
// @Summary Update a todo item
// @Description Apply the provided fields; omitted fields stay untouched.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param request body dto.UpdateTodoRequest true "Update Todo Request"
// @Success 200 {object} dto.TodoResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/todos/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTodo")
	defer scope.End()

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("invalid or expired token"))

		return
	}

	id, err := parseID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateTodoRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	todo, err := handler.service.Update(ctx, id, identity.Subject, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to update todo")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, todo)
}

// ToggleTodo flips the completion flag of one of the authenticated user's todos.
// @Summary Toggle a todo item's completion
// @Tags Todo
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} dto.TodoResponse
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/todos/{id}/toggle [patch]
// @Security BearerAuth
func (handler *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleTodo")
	defer scope.End()

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("invalid or expired token"))

		return
	}

	id, err := parseID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	todo, err := handler.service.Toggle(ctx, id, identity.Subject)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to toggle todo")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, todo)
}

// DeleteTodo removes one of the authenticated user's todos.
// @Summary Delete a todo item
// @Tags Todo
// @Param id path int true "Todo ID"
// @Success 204 "Todo deleted"
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/todos/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTodo")
	defer scope.End()

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("invalid or expired token"))

		return
	}

	id, err := parseID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id, identity.Subject); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete todo")

		response.WithError(w, err)

		return
	}

	response.WithNoContent(w)
}

// parseID treats a non-numeric path segment the same as a missing row.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, constant.RequestParamID)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, failure.NotFound("todo not found") //nolint:wrapcheck
	}

	return id, nil
}

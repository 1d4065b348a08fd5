package dto

import (
	"strings"
	"time"

	"evotodo/internal/domains/todo/model"
	gDto "evotodo/shared/dto"
	gModel "evotodo/shared/model"
)

type CreateTodoRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// Normalize trims the incoming fields so length limits apply to the value
// that gets stored, not to surrounding whitespace.
func (c *CreateTodoRequest) Normalize() {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
}

// ToModel builds the row for the verified identity of the creating request.
// Title and description are stored trimmed; the id stays zero until storage
// assigns one.
func (c *CreateTodoRequest) ToModel(owner string, now time.Time) model.Todo {
	return model.Todo{
		UserID:      owner,
		Title:       strings.TrimSpace(c.Title),
		Description: strings.TrimSpace(c.Description),
		Completed:   false,
		Metadata: gModel.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// UpdateTodoRequest is a partial update. Nil means "leave untouched";
// clearing the description requires supplying an empty string explicitly.
type UpdateTodoRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Completed   *bool   `json:"completed" validate:"omitempty"`
}

// Normalize trims the supplied fields in place. Nil fields stay nil; a
// description trimmed down to the empty string still means "clear it".
func (u *UpdateTodoRequest) Normalize() {
	if u.Title != nil {
		trimmed := strings.TrimSpace(*u.Title)
		u.Title = &trimmed
	}
	if u.Description != nil {
		trimmed := strings.TrimSpace(*u.Description)
		u.Description = &trimmed
	}
}

type TodoResponse struct {
	ID          int64  `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	gDto.Metadata
}

func (r *TodoResponse) FromModel(mod model.Todo) {
	r.ID = mod.ID
	r.UserID = mod.UserID
	r.Title = mod.Title
	r.Description = mod.Description
	r.Completed = mod.Completed
	r.Metadata.FromModel(mod.Metadata)
}

func TodoResponsesFromModels(models []model.Todo) []TodoResponse {
	responses := make([]TodoResponse, len(models))
	for i, mod := range models {
		responses[i].FromModel(mod)
	}

	return responses
}

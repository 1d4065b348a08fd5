package dto_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evotodo/internal/domains/todo/model"
	"evotodo/internal/domains/todo/model/dto"
	gModel "evotodo/shared/model"
	"evotodo/shared/validator"
)

func TestCreateTodoRequest_ToModel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	req := dto.CreateTodoRequest{
		Title:       "  buy milk  ",
		Description: "  two liters  ",
	}

	mod := req.ToModel("user-a", now)
	assert.Equal(t, "buy milk", mod.Title)
	assert.Equal(t, "two liters", mod.Description)
	assert.Equal(t, "user-a", mod.UserID)
	assert.False(t, mod.Completed)
	assert.Zero(t, mod.ID)
	assert.Equal(t, now, mod.CreatedAt)
	assert.Equal(t, now, mod.UpdatedAt)
}

func TestCreateTodoRequest_MaxLengthAppliesToTrimmedTitle(t *testing.T) {
	longest := strings.Repeat("a", model.TitleMaxLength)

	req := dto.CreateTodoRequest{Title: "  " + longest + "  "}
	req.Normalize()

	require.NoError(t, validator.ValidateStruct(&req))
	assert.Equal(t, longest, req.Title)

	over := dto.CreateTodoRequest{Title: strings.Repeat("a", model.TitleMaxLength+1)}
	over.Normalize()
	assert.Error(t, validator.ValidateStruct(&over))
}

func TestUpdateTodoRequest_Normalize(t *testing.T) {
	title := "  " + strings.Repeat("a", model.TitleMaxLength) + "  "
	description := "  two liters  "

	req := dto.UpdateTodoRequest{Title: &title, Description: &description}
	req.Normalize()

	require.NoError(t, validator.ValidateStruct(&req))
	assert.Equal(t, strings.Repeat("a", model.TitleMaxLength), *req.Title)
	assert.Equal(t, "two liters", *req.Description)

	// Nil fields stay nil so "omitted" and "clear" remain distinct.
	empty := dto.UpdateTodoRequest{}
	empty.Normalize()
	assert.Nil(t, empty.Title)
	assert.Nil(t, empty.Description)
	assert.Nil(t, empty.Completed)
}

func TestTodoResponse_JSONShape(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var res dto.TodoResponse
	res.FromModel(model.Todo{
		ID:          7,
		UserID:      "user-a",
		Title:       "buy milk",
		Description: "two liters",
		Completed:   true,
		Metadata: gModel.Metadata{
			CreatedAt: created,
			UpdatedAt: created.Add(time.Minute),
		},
	})

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, float64(7), body["id"])
	assert.Equal(t, "user-a", body["userId"])
	assert.Equal(t, "buy milk", body["title"])
	assert.Equal(t, "two liters", body["description"])
	assert.Equal(t, true, body["completed"])
	assert.Equal(t, "2025-06-01T12:00:00Z", body["createdAt"])
	assert.Equal(t, "2025-06-01T12:01:00Z", body["updatedAt"])
}

package model

import "evotodo/shared/model"

const (
	TableName  = "todos"
	EntityName = "todo"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
)

const (
	TitleMaxLength       = 255
	DescriptionMaxLength = 1000
)

// Todo is a task row. UserID is set exactly once, at creation, from the
// verified identity of the creating request.
type Todo struct {
	ID          int64  `db:"id"`
	UserID      string `db:"user_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Completed   bool   `db:"completed"`
	model.Metadata
}

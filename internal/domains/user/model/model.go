package model

import "time"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID    = "id"
	FieldEmail = "email"
	FieldName  = "name"
)

// User mirrors identities seen in verified tokens for reference joins. The
// identity provider stays authoritative; this table is never consulted
// during authentication.
type User struct {
	ID        string    `db:"id"`
	Email     *string   `db:"email"`
	Name      *string   `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

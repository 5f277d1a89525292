package models

import "time"

// Role tags a conversation turn as written by the user or the model.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one message in the conversation log. ID and CreatedAt are assigned
// by the store on insert and never change afterwards.
type Turn struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
}

package models

import "time"

// Roles carried by the authenticated principal. Identity and session issuance
// are external; the core only reads the role for authorization gates.
const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// Principal is the authenticated caller attached to every core operation.
type Principal struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Authenticated reports whether a real principal is present.
func (p Principal) Authenticated() bool {
	return p.ID != ""
}

// User is the slice of the identity document the core touches: role for
// authorization and the notification inbox the worker appends to.
type User struct {
	ID            string         `bson:"id" json:"id"`
	Name          string         `bson:"name" json:"name"`
	Email         string         `bson:"email" json:"email"`
	Role          string         `bson:"role" json:"role"`
	Notifications []Notification `bson:"notifications,omitempty" json:"notifications,omitempty"`
	UpdatedAt     time.Time      `bson:"updated_at" json:"updated_at"`
}

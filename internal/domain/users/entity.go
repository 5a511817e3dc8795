package users

import "time"

// Role enum
type Role string

const (
	RoleTeen     Role = "teen"
	RoleParent   Role = "parent"
	RoleEducator Role = "educator"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTeen, RoleParent, RoleEducator, RoleAdmin:
		return true
	}
	return false
}

// User account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

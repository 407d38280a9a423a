package entity

import "time"

// RoleAdmin is the only privileged role; any other role name is an
// ordinary account.
const RoleAdmin = "admin"

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash, never the plain text.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

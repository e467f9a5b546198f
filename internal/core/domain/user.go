package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

// Actor is the identity a request is executed on behalf of.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanModify reports whether the actor may change the given time log: admins
// may change any log, employees only the logs they authored.
func CanModify(actor Actor, log *TimeLog) bool {
	if log == nil {
		return false
	}
	return actor.IsAdmin() || (actor.UserID != "" && actor.UserID == log.UserID)
}

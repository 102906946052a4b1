package user

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Roles
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

var (
	AllRoles        = []string{RoleAdmin, RoleInstructor, RoleStudent}
	PrivilegedRoles = []string{RoleAdmin, RoleInstructor}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Instructor", Value: RoleInstructor},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// IsRole reports whether `role` is a known role.
func IsRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is the identity of the caller of a request.
// Accounts live outside this service: a User is built from the claims of its token.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Institution string `json:"institution,omitempty"`
}

// Anonymous is the caller of unauthenticated requests.
var Anonymous = User{Role: RoleStudent}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsInstructor() bool {
	return u.Role == RoleInstructor
}

func (u User) IsStudent() bool {
	return !(u.IsAdmin() || u.IsInstructor())
}

// IsPrivileged reports whether the user may manage forms and announcements.
func (u User) IsPrivileged() bool {
	return u.IsAdmin() || u.IsInstructor()
}

// Scope returns the institution the user is attached to, if any.
func (u User) Scope() null.String {
	return core.Scope(u.Institution)
}

// Label returns the display name used when the user authors or answers something.
func (u User) Label(fallback string) string {
	if name := core.CleanString(u.Name); name != "" {
		return name
	}
	return fallback
}

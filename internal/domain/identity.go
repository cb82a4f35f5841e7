package domain

import "fmt"

// Role distinguishes the three user classes of the platform. It is a closed
// enumeration: anything outside these three values is rejected at the boundary.
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleCollege   Role = "college"
)

// ParseRole validates a role tag coming from a token claim or a client payload.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleRecruiter, RoleCollege:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Identity is an authenticated caller: a record id qualified by its role.
// Ids are only unique within a role's table, so the pair is the real key.
type Identity struct {
	ID   uint `json:"userId"`
	Role Role `json:"userType"`
}

func (i Identity) String() string {
	return fmt.Sprintf("%s:%d", i.Role, i.ID)
}

package roles

import "time"

// Role de plataforma. No confundir con el rol declarado del perfil (shelter, vet).
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleModerator:
		return Role(s), true
	default:
		return "", false
	}
}

type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

type Assignment struct {
	ID        string
	UserID    string
	Role      Role
	GrantedBy string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

package profiles

import "time"

// DeclaredRole es lo que el usuario dice ser. Otorga acceso a contactos
// (shelter) y a gestionar reportes (shelter, vet); no es un rol de plataforma.
type DeclaredRole string

const (
	RoleOwner     DeclaredRole = "owner"
	RoleShelter   DeclaredRole = "shelter"
	RoleVet       DeclaredRole = "vet"
	RoleVolunteer DeclaredRole = "volunteer"
)

func ParseDeclaredRole(s string) (DeclaredRole, bool) {
	switch DeclaredRole(s) {
	case RoleOwner, RoleShelter, RoleVet, RoleVolunteer:
		return DeclaredRole(s), true
	default:
		return "", false
	}
}

type Profile struct {
	UserID       string
	DisplayName  string
	Phone        string
	DeclaredRole DeclaredRole
	SoundEnabled bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Default es el perfil implícito de un usuario que nunca guardó uno.
func Default(userID string) Profile {
	return Profile{
		UserID:       userID,
		DeclaredRole: RoleOwner,
		SoundEnabled: true,
	}
}

package auth

// Claims representa la información extraída del token.
// Role es el rol del JWT del BaaS ("authenticated", "anon", "service_role"),
// no el rol de plataforma (eso lo resuelve roles.Checker).
// DeclaredRole lo completa el middleware desde el perfil (owner, shelter, vet...).
type Claims struct {
	UserID       string
	Email        string
	Role         string
	DeclaredRole string
}

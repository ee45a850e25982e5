package visibility

import (
	"context"
	"strings"

	"pet-reports-map/internal/platform/logger"
	"pet-reports-map/internal/ports/roles"
)

// RoleAdmin es el rol de plataforma elevado que siempre puede ver contactos.
const RoleAdmin = "admin"

// DefaultCaregiverRoles son los roles declarados (perfil) con acceso a contactos.
var DefaultCaregiverRoles = []string{"shelter"}

// Viewer es la identidad explícita de quien mira. UserID vacío => invitado.
type Viewer struct {
	UserID       string
	DeclaredRole string
}

func Guest() Viewer { return Viewer{} }

func (v Viewer) Authenticated() bool {
	return strings.TrimSpace(v.UserID) != ""
}

type Mode string

const (
	ModeCall   Mode = "call"    // puede ver el teléfono
	ModeHidden Mode = "hidden"  // autenticado sin permiso
	ModeSignIn Mode = "sign_in" // invitado
	ModeNone   Mode = "none"    // con permiso, pero no hay teléfono cargado
)

type ContactDisclosure struct {
	Mode  Mode   `json:"mode"`
	Phone string `json:"phone,omitempty"`
}

type Policy struct {
	checker   roles.Checker
	caregiver map[string]struct{}
	log       logger.Logger
}

func NewPolicy(checker roles.Checker, log logger.Logger, caregiverRoles ...string) *Policy {
	if len(caregiverRoles) == 0 {
		caregiverRoles = DefaultCaregiverRoles
	}
	if log == nil {
		log = logger.Nop()
	}
	set := make(map[string]struct{}, len(caregiverRoles))
	for _, r := range caregiverRoles {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			set[r] = struct{}{}
		}
	}
	return &Policy{checker: checker, caregiver: set, log: log}
}

// CanViewPhone: dueño OR admin OR rol declarado de cuidador.
// Cualquier error del chequeo de rol => false (fail closed).
func (p *Policy) CanViewPhone(ctx context.Context, v Viewer, ownerUserID string) bool {
	if !v.Authenticated() {
		return false
	}
	if ownerUserID != "" && v.UserID == ownerUserID {
		return true
	}
	if p.IsCaregiver(v) {
		return true
	}
	return p.IsAdmin(ctx, v)
}

func (p *Policy) IsCaregiver(v Viewer) bool {
	_, ok := p.caregiver[strings.ToLower(strings.TrimSpace(v.DeclaredRole))]
	return ok && v.Authenticated()
}

// IsAdmin consulta has_role(admin). Falla cerrado.
func (p *Policy) IsAdmin(ctx context.Context, v Viewer) bool {
	return p.HasRole(ctx, v, RoleAdmin)
}

func (p *Policy) HasRole(ctx context.Context, v Viewer, role string) bool {
	if !v.Authenticated() || p == nil || p.checker == nil {
		return false
	}
	ok, err := p.checker.HasRole(ctx, v.UserID, role)
	if err != nil {
		p.log.Warn("role check failed, denying", map[string]any{
			"user_id": v.UserID,
			"role":    role,
			"err":     err,
		})
		return false
	}
	return ok
}

// Disclose decide cómo se presenta el contacto del dueño en el detalle.
func (p *Policy) Disclose(ctx context.Context, v Viewer, ownerUserID, phone string) ContactDisclosure {
	if !v.Authenticated() {
		return ContactDisclosure{Mode: ModeSignIn}
	}
	if !p.CanViewPhone(ctx, v, ownerUserID) {
		return ContactDisclosure{Mode: ModeHidden}
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ContactDisclosure{Mode: ModeNone}
	}
	return ContactDisclosure{Mode: ModeCall, Phone: phone}
}

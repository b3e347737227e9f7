package usuarios

import "time"

// Role define los roles de usuario (de mayor a menor nivel).
// @Enum admin, supervisor, normal
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleNormal     Role = "normal"
)

// RoleLabels son las etiquetas en español para mostrar en UI.
var RoleLabels = map[Role]string{
	RoleAdmin:      "Administrador",
	RoleSupervisor: "Supervisor",
	RoleNormal:     "Usuario",
}

func (r Role) Valido() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleNormal:
		return true
	}
	return false
}

func (r Role) Etiqueta() string {
	if l, ok := RoleLabels[r]; ok {
		return l
	}
	return string(r)
}

// PuedeVerTodas: admin y supervisor ven todas las solicitudes
// (y pueden cambiar su estatus). El backend lo vuelve a comprobar.
func (r Role) PuedeVerTodas() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// PuedeAdministrar: solo admin gestiona cuentas de usuario.
func (r Role) PuedeAdministrar() bool {
	return r == RoleAdmin
}

// User es el usuario autenticado tal como lo devuelve /api/auth.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserAdmin es el usuario tal como lo devuelve el listado de admin
// (incluye disabled y createdAt).
type UserAdmin struct {
	User
	Disabled  bool       `json:"disabled"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

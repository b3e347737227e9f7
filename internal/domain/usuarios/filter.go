package usuarios

import "strings"

// Estado de cuenta para el filtro de la tabla de usuarios.
type Estado string

const (
	EstadoActivo        Estado = "activo"
	EstadoDeshabilitado Estado = "deshabilitado"
)

// Filtros de la tabla de usuarios. El valor cero de cada campo
// significa "sin restricción".
type Filtros struct {
	Search string
	Role   Role
	Estado Estado
}

// Activos indica si hay algún filtro aplicado.
func (f Filtros) Activos() bool {
	return strings.TrimSpace(f.Search) != "" || f.Role != "" || f.Estado != ""
}

// AplicarFiltros aplica los filtros a la lista de usuarios (búsqueda por
// nombre/email, rol y estado). Filtro estable: conserva el orden relativo,
// nunca muta la entrada. Un valor de enum desconocido no coincide con
// ningún usuario; nunca es un error.
func AplicarFiltros(users []UserAdmin, f Filtros) []UserAdmin {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]UserAdmin, 0, len(users))
	for _, u := range users {
		if search != "" {
			matchName := strings.Contains(strings.ToLower(u.Name), search)
			matchEmail := strings.Contains(strings.ToLower(u.Email), search)
			if !matchName && !matchEmail {
				continue
			}
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Estado == EstadoActivo && u.Disabled {
			continue
		}
		if f.Estado == EstadoDeshabilitado && !u.Disabled {
			continue
		}
		if f.Estado != "" && f.Estado != EstadoActivo && f.Estado != EstadoDeshabilitado {
			// estado desconocido => no coincide nada
			continue
		}
		out = append(out, u)
	}
	return out
}

package solicitudes

import "strings"

// Filtros del historial de solicitudes. El valor cero de cada campo
// significa "sin restricción". Las fechas van en formato YYYY-MM-DD.
type Filtros struct {
	TipoAccion    TipoAccion
	TipoDocumento TipoDocumento
	CreadoPorID   string
	Estatus       Estatus
	FechaDesde    string
	FechaHasta    string
}

// Activos indica si hay algún filtro aplicado.
func (f Filtros) Activos() bool {
	return f.TipoAccion != "" ||
		f.TipoDocumento != "" ||
		strings.TrimSpace(f.CreadoPorID) != "" ||
		f.Estatus != "" ||
		f.FechaDesde != "" ||
		f.FechaHasta != ""
}

// AplicarFiltros deriva la vista filtrada del historial. Filtro estable:
// conserva el orden relativo de entrada, nunca muta la lista y es
// idempotente. Cada criterio presente excluye lo que no coincide; los
// campos enum comparan por igualdad exacta (un valor desconocido no
// coincide con nada, nunca es un error). El rango de fechas compara el
// día (UTC, inclusive por ambos lados).
func AplicarFiltros(items []Solicitud, f Filtros) []Solicitud {
	creadoPorID := strings.TrimSpace(f.CreadoPorID)

	out := make([]Solicitud, 0, len(items))
	for _, s := range items {
		if f.TipoAccion != "" && s.TipoAccion != f.TipoAccion {
			continue
		}
		if f.TipoDocumento != "" && s.TipoDocumento != f.TipoDocumento {
			continue
		}
		if creadoPorID != "" && s.CreadoPor.ID != creadoPorID {
			continue
		}
		if f.Estatus != "" && s.EstatusEfectivo() != f.Estatus {
			continue
		}
		if f.FechaDesde != "" || f.FechaHasta != "" {
			fecha := s.FechaCreacion.UTC().Format("2006-01-02")
			if f.FechaDesde != "" && fecha < f.FechaDesde {
				continue
			}
			if f.FechaHasta != "" && fecha > f.FechaHasta {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// Creador es una opción del selector "Creado por".
type Creador struct {
	ID       string
	Etiqueta string
}

// CreadoresUnicos lista los creadores distintos (solo cuando el backend
// hizo populate), en orden de primera aparición.
func CreadoresUnicos(items []Solicitud) []Creador {
	seen := map[string]struct{}{}
	out := make([]Creador, 0)
	for _, s := range items {
		if !s.CreadoPor.Presente() || !s.CreadoPor.Expandida() {
			continue
		}
		if _, ok := seen[s.CreadoPor.ID]; ok {
			continue
		}
		seen[s.CreadoPor.ID] = struct{}{}
		out = append(out, Creador{ID: s.CreadoPor.ID, Etiqueta: s.CreadoPor.Etiqueta()})
	}
	return out
}

package solicitudes

import (
	"time"

	"easy-request/internal/domain/usuarios"
)

// Documento es cada fila de la tabla de documentos de una solicitud.
type Documento struct {
	Codigo            string `json:"codigo"`
	TituloDocumento   string `json:"tituloDocumento"`
	DescripcionCambio string `json:"descripcionCambio"`
	Justificacion     string `json:"justificacion"`
}

// Solicitud es una solicitud de cambio de documentos tal como la
// devuelve el backend.
type Solicitud struct {
	ID string `json:"_id"`

	// Número generado por el backend (ej. SL-1, SL-2).
	// Puede no existir en datos antiguos.
	Correlativo string `json:"correlativo,omitempty"`

	TipoAccion      TipoAccion    `json:"tipoAccion"`
	TipoDocumento   TipoDocumento `json:"tipoDocumento"`
	OtroEspecifique string        `json:"otroEspecifique,omitempty"`

	Documentos []Documento `json:"documentos"`

	FechaCreacion time.Time `json:"fechaCreacion"`

	// Usuario creador: id plano u objeto poblado según el backend.
	CreadoPor usuarios.Ref `json:"creadoPor,omitempty"`

	// Estatus de ejecución; ausente => en_espera (usar EstatusEfectivo).
	Estatus Estatus `json:"estatus,omitempty"`

	SeguimientoCount int `json:"seguimientoCount,omitempty"`
}

// EstatusEfectivo normaliza el estatus ausente a en_espera.
// Filtros, badges y export deben pasar por aquí.
func (s Solicitud) EstatusEfectivo() Estatus {
	if s.Estatus == "" {
		return EstatusEnEspera
	}
	return s.Estatus
}

// CorrelativoVisible devuelve el correlativo, o un derivado del id
// para datos antiguos sin correlativo.
func (s Solicitud) CorrelativoVisible() string {
	if s.Correlativo != "" {
		return s.Correlativo
	}
	if len(s.ID) > 6 {
		return "#" + s.ID[len(s.ID)-6:]
	}
	return "#" + s.ID
}

// TipoDocumentoVisible usa el texto libre cuando el tipo es "otro".
func (s Solicitud) TipoDocumentoVisible() string {
	if s.TipoDocumento == DocumentoOtro && s.OtroEspecifique != "" {
		return s.OtroEspecifique
	}
	return s.TipoDocumento.Etiqueta()
}

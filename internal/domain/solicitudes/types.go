package solicitudes

// TipoAccion define la acción pedida sobre los documentos.
// @Enum creacion, revision_actualizacion, eliminacion
type TipoAccion string

const (
	AccionCreacion    TipoAccion = "creacion"
	AccionRevision    TipoAccion = "revision_actualizacion"
	AccionEliminacion TipoAccion = "eliminacion"
)

var LabelsTipoAccion = map[TipoAccion]string{
	AccionCreacion:    "Creación",
	AccionRevision:    "Revisión / Actualización",
	AccionEliminacion: "Eliminación",
}

func (t TipoAccion) Valido() bool {
	_, ok := LabelsTipoAccion[t]
	return ok
}

func (t TipoAccion) Etiqueta() string {
	if l, ok := LabelsTipoAccion[t]; ok {
		return l
	}
	return string(t)
}

// TipoDocumento define el tipo de documento afectado.
// @Enum formulario, procedimiento, instruccion_trabajo, otro
type TipoDocumento string

const (
	DocumentoFormulario  TipoDocumento = "formulario"
	DocumentoProcedim    TipoDocumento = "procedimiento"
	DocumentoInstruccion TipoDocumento = "instruccion_trabajo"
	DocumentoOtro        TipoDocumento = "otro"
)

var LabelsTipoDocumento = map[TipoDocumento]string{
	DocumentoFormulario:  "Formulario",
	DocumentoProcedim:    "Procedimiento",
	DocumentoInstruccion: "Instrucción de trabajo",
	DocumentoOtro:        "Otro",
}

func (t TipoDocumento) Valido() bool {
	_, ok := LabelsTipoDocumento[t]
	return ok
}

func (t TipoDocumento) Etiqueta() string {
	if l, ok := LabelsTipoDocumento[t]; ok {
		return l
	}
	return string(t)
}

// Estatus de ejecución de la solicitud. Solo admin/supervisor pueden
// cambiarlo en el backend. Por defecto en_espera.
// @Enum en_espera, en_proceso, ejecutado
type Estatus string

const (
	EstatusEnEspera  Estatus = "en_espera"
	EstatusEnProceso Estatus = "en_proceso"
	EstatusEjecutado Estatus = "ejecutado"
)

var LabelsEstatus = map[Estatus]string{
	EstatusEnEspera:  "En espera",
	EstatusEnProceso: "En proceso",
	EstatusEjecutado: "Ejecutado",
}

func (e Estatus) Valido() bool {
	_, ok := LabelsEstatus[e]
	return ok
}

func (e Estatus) Etiqueta() string {
	if l, ok := LabelsEstatus[e]; ok {
		return l
	}
	return string(e)
}

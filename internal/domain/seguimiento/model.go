package seguimiento

import (
	"time"

	"easy-request/internal/domain/usuarios"
)

// Adjunto es un archivo adjunto a un comentario, con el contenido
// embebido como data URL.
type Adjunto struct {
	NombreArchivo string `json:"nombreArchivo"`
	URL           string `json:"url"`
}

// Seguimiento es un comentario del hilo de una solicitud. Inmutable una
// vez persistido en el backend.
type Seguimiento struct {
	ID          string       `json:"_id"`
	SolicitudID string       `json:"solicitud"`
	Texto       string       `json:"texto"`
	Adjuntos    []Adjunto    `json:"adjuntos,omitempty"`
	Fecha       time.Time    `json:"fecha"`
	Autor       usuarios.Ref `json:"autor,omitempty"`
}

// CrearPayload es el body de POST /api/solicitudes/{id}/seguimiento.
type CrearPayload struct {
	Texto    string    `json:"texto"`
	Adjuntos []Adjunto `json:"adjuntos,omitempty"`
}

// Entrada es un elemento de la lista visible del hilo: un comentario
// persistido, o uno optimista aún pendiente de confirmación.
type Entrada struct {
	Seguimiento

	// Pendiente marca una entrada optimista todavía sin confirmar.
	// TempID es su identificador local ("pendiente-<uuid>"), nunca
	// colisiona con ids del backend.
	Pendiente bool
	TempID    string
}

// EsMia indica si el comentario es del usuario dado (para alinear la
// burbuja en el chat).
func (e Entrada) EsMia(userID string) bool {
	return userID != "" && e.Autor.Presente() && e.Autor.ID == userID
}

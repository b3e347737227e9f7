package solicitudes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Límites del formulario original.
const (
	MaxCodigo          = 50
	MaxTitulo          = 200
	MaxDescripcion     = 2000
	MaxJustificacion   = 2000
	MaxOtroEspecifique = 100
)

// CrearInput es el payload de POST /api/solicitudes (sin id ni metadatos).
type CrearInput struct {
	TipoAccion      TipoAccion    `json:"tipoAccion"`
	TipoDocumento   TipoDocumento `json:"tipoDocumento"`
	OtroEspecifique string        `json:"otroEspecifique,omitempty"`
	Documentos      []Documento   `json:"documentos"`
}

// Validar comprueba el payload con las mismas reglas (y mensajes) del
// formulario original. El mensaje se muestra tal cual al usuario.
func Validar(in CrearInput) error {
	if !in.TipoAccion.Valido() {
		return fmt.Errorf("%w: selecciona un tipo de acción", ErrInvalidInput)
	}
	if !in.TipoDocumento.Valido() {
		return fmt.Errorf("%w: selecciona un tipo de documento", ErrInvalidInput)
	}
	if in.TipoDocumento == DocumentoOtro && strings.TrimSpace(in.OtroEspecifique) == "" {
		return fmt.Errorf("%w: especifica el tipo de documento cuando eliges 'Otro'", ErrInvalidInput)
	}
	if len(in.OtroEspecifique) > MaxOtroEspecifique {
		return fmt.Errorf("%w: otro (especifique): máximo %d caracteres", ErrInvalidInput, MaxOtroEspecifique)
	}
	if len(in.Documentos) == 0 {
		return fmt.Errorf("%w: añade al menos un documento", ErrInvalidInput)
	}
	for i, d := range in.Documentos {
		if err := validarDocumento(d); err != nil {
			return fmt.Errorf("documento %d: %w", i+1, err)
		}
	}
	return nil
}

func validarDocumento(d Documento) error {
	if strings.TrimSpace(d.Codigo) == "" {
		return fmt.Errorf("%w: el código es obligatorio", ErrInvalidInput)
	}
	if len(d.Codigo) > MaxCodigo {
		return fmt.Errorf("%w: código: máximo %d caracteres", ErrInvalidInput, MaxCodigo)
	}
	if strings.TrimSpace(d.TituloDocumento) == "" {
		return fmt.Errorf("%w: el título es obligatorio", ErrInvalidInput)
	}
	if len(d.TituloDocumento) > MaxTitulo {
		return fmt.Errorf("%w: título: máximo %d caracteres", ErrInvalidInput, MaxTitulo)
	}
	if strings.TrimSpace(d.DescripcionCambio) == "" {
		return fmt.Errorf("%w: la descripción del cambio es obligatoria", ErrInvalidInput)
	}
	if len(d.DescripcionCambio) > MaxDescripcion {
		return fmt.Errorf("%w: descripción del cambio: máximo %d caracteres", ErrInvalidInput, MaxDescripcion)
	}
	if strings.TrimSpace(d.Justificacion) == "" {
		return fmt.Errorf("%w: la justificación es obligatoria", ErrInvalidInput)
	}
	if len(d.Justificacion) > MaxJustificacion {
		return fmt.Errorf("%w: justificación: máximo %d caracteres", ErrInvalidInput, MaxJustificacion)
	}
	return nil
}

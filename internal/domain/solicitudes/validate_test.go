package solicitudes

import (
	"errors"
	"strings"
	"testing"
)

func inputValido() CrearInput {
	return CrearInput{
		TipoAccion:    AccionCreacion,
		TipoDocumento: DocumentoFormulario,
		Documentos: []Documento{{
			Codigo:            "F-001",
			TituloDocumento:   "Registro de asistencia",
			DescripcionCambio: "Nuevo formato",
			Justificacion:     "Requerido por auditoría",
		}},
	}
}

func TestValidarAceptaInputCompleto(t *testing.T) {
	if err := Validar(inputValido()); err != nil {
		t.Fatalf("input válido rechazado: %v", err)
	}
}

func TestValidarRechazos(t *testing.T) {
	casos := map[string]func(*CrearInput){
		"sin tipo de acción":       func(in *CrearInput) { in.TipoAccion = "" },
		"acción desconocida":       func(in *CrearInput) { in.TipoAccion = "clonacion" },
		"sin tipo de documento":    func(in *CrearInput) { in.TipoDocumento = "" },
		"otro sin especificar":     func(in *CrearInput) { in.TipoDocumento = DocumentoOtro },
		"sin documentos":           func(in *CrearInput) { in.Documentos = nil },
		"código vacío":             func(in *CrearInput) { in.Documentos[0].Codigo = "  " },
		"código demasiado largo":   func(in *CrearInput) { in.Documentos[0].Codigo = strings.Repeat("x", MaxCodigo+1) },
		"título vacío":             func(in *CrearInput) { in.Documentos[0].TituloDocumento = "" },
		"descripción vacía":        func(in *CrearInput) { in.Documentos[0].DescripcionCambio = "" },
		"justificación vacía":      func(in *CrearInput) { in.Documentos[0].Justificacion = "" },
		"justificación muy larga":  func(in *CrearInput) { in.Documentos[0].Justificacion = strings.Repeat("x", MaxJustificacion+1) },
		"otro especifique largo":   func(in *CrearInput) { in.TipoDocumento = DocumentoOtro; in.OtroEspecifique = strings.Repeat("x", MaxOtroEspecifique+1) },
	}
	for nombre, romper := range casos {
		t.Run(nombre, func(t *testing.T) {
			in := inputValido()
			romper(&in)
			err := Validar(in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("esperaba ErrInvalidInput, llegó %v", err)
			}
		})
	}
}

func TestValidarOtroConEspecifiqueEsValido(t *testing.T) {
	in := inputValido()
	in.TipoDocumento = DocumentoOtro
	in.OtroEspecifique = "Manual de calidad"
	if err := Validar(in); err != nil {
		t.Fatalf("otro + especifique debería ser válido: %v", err)
	}
}

// Package export genera el archivo Excel del historial de solicitudes
// con dos hojas: resumen por solicitud y detalle por documento.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"easy-request/internal/domain/solicitudes"
)

const (
	hojaSolicitudes = "Solicitudes"
	hojaDocumentos  = "Documentos"
)

// NombreArchivo es el nombre por defecto del export (fecha del día).
func NombreArchivo(now time.Time) string {
	return fmt.Sprintf("historial-solicitudes-%s.xlsx", now.UTC().Format("2006-01-02"))
}

func formatFechaExcel(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02/01/2006 15:04")
}

// Exportar escribe el libro xlsx en ruta. La lista llega ya filtrada;
// aquí solo se transforma, sin tocar la red.
func Exportar(items []solicitudes.Solicitud, ruta string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaSolicitudes); err != nil {
		return err
	}
	if _, err := f.NewSheet(hojaDocumentos); err != nil {
		return err
	}

	// Hoja 1: Solicitudes (resumen).
	headersSolicitudes := []any{
		"Correlativo",
		"Tipo de acción",
		"Tipo de documento",
		"Otro (especifique)",
		"Fecha de creación",
		"Estatus",
		"Creado por (nombre)",
		"Creado por (email)",
		"Nº documentos",
	}
	if err := f.SetSheetRow(hojaSolicitudes, "A1", &headersSolicitudes); err != nil {
		return err
	}
	for i, s := range items {
		nombre, email := "", ""
		if s.CreadoPor.Expandida() {
			nombre = s.CreadoPor.Name
			email = s.CreadoPor.Email
		}
		correlativo := s.Correlativo
		if correlativo == "" {
			correlativo = s.ID
		}
		row := []any{
			correlativo,
			s.TipoAccion.Etiqueta(),
			s.TipoDocumento.Etiqueta(),
			s.OtroEspecifique,
			formatFechaExcel(s.FechaCreacion),
			s.EstatusEfectivo().Etiqueta(),
			nombre,
			email,
			len(s.Documentos),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(hojaSolicitudes, cell, &row); err != nil {
			return err
		}
	}

	anchosSolicitudes := []float64{12, 22, 20, 18, 18, 14, 24, 28, 12}
	if err := setAnchos(f, hojaSolicitudes, anchosSolicitudes); err != nil {
		return err
	}

	// Hoja 2: Documentos (detalle, una fila por documento).
	headersDocumentos := []any{
		"Correlativo",
		"Nº doc",
		"Código",
		"Título del documento",
		"Descripción del cambio",
		"Justificación",
	}
	if err := f.SetSheetRow(hojaDocumentos, "A1", &headersDocumentos); err != nil {
		return err
	}
	fila := 2
	for _, s := range items {
		correlativo := s.Correlativo
		if correlativo == "" {
			correlativo = s.ID
		}
		for idx, doc := range s.Documentos {
			row := []any{
				correlativo,
				idx + 1,
				doc.Codigo,
				doc.TituloDocumento,
				doc.DescripcionCambio,
				doc.Justificacion,
			}
			cell := fmt.Sprintf("A%d", fila)
			if err := f.SetSheetRow(hojaDocumentos, cell, &row); err != nil {
				return err
			}
			fila++
		}
	}

	anchosDocumentos := []float64{12, 8, 18, 32, 40, 40}
	if err := setAnchos(f, hojaDocumentos, anchosDocumentos); err != nil {
		return err
	}

	return f.SaveAs(ruta)
}

func setAnchos(f *excelize.File, hoja string, anchos []float64) error {
	for i, w := range anchos {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(hoja, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/export"
)

// nuevaTabla comparte el estilo de todas las tablas del CLI.
func nuevaTabla(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

func newSolicitudesCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solicitudes",
		Short: "Lista, crea y administra solicitudes",
	}
	cmd.AddCommand(
		newSolicitudesListarCmd(app),
		newSolicitudesCrearCmd(app),
		newSolicitudesEstatusCmd(app),
		newSolicitudesExportarCmd(app),
	)
	return cmd
}

// filtrosFlags mapea los flags de filtrado al filtro del dominio.
type filtrosFlags struct {
	accion  string
	tipoDoc string
	creador string
	estatus string
	desde   string
	hasta   string
}

func (f *filtrosFlags) registrar(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.accion, "accion", "", "filtra por tipo de acción (creacion|revision_actualizacion|eliminacion)")
	cmd.Flags().StringVar(&f.tipoDoc, "tipo-doc", "", "filtra por tipo de documento (formulario|procedimiento|instruccion_trabajo|otro)")
	cmd.Flags().StringVar(&f.creador, "creador", "", "filtra por id del creador")
	cmd.Flags().StringVar(&f.estatus, "estatus", "", "filtra por estatus (en_espera|en_proceso|ejecutado)")
	cmd.Flags().StringVar(&f.desde, "desde", "", "fecha mínima, formato AAAA-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.hasta, "hasta", "", "fecha máxima, formato AAAA-MM-DD (inclusive)")
}

func (f *filtrosFlags) aFiltros() (solicitudes.Filtros, error) {
	out := solicitudes.Filtros{
		TipoAccion:    solicitudes.TipoAccion(f.accion),
		TipoDocumento: solicitudes.TipoDocumento(f.tipoDoc),
		CreadoPorID:   f.creador,
		Estatus:       solicitudes.Estatus(f.estatus),
	}
	validar := func(v string) error {
		if v == "" {
			return nil
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return fmt.Errorf("fecha inválida %q (se espera AAAA-MM-DD)", v)
		}
		return nil
	}
	if err := validar(f.desde); err != nil {
		return solicitudes.Filtros{}, err
	}
	if err := validar(f.hasta); err != nil {
		return solicitudes.Filtros{}, err
	}
	out.FechaDesde = f.desde
	out.FechaHasta = f.hasta
	return out, nil
}

func newSolicitudesListarCmd(app func() *App) *cobra.Command {
	var flags filtrosFlags

	cmd := &cobra.Command{
		Use:   "listar",
		Short: "Lista las solicitudes visibles, con filtros opcionales",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			filtros, err := flags.aFiltros()
			if err != nil {
				return err
			}
			items, err := app().API.ListarSolicitudes(cmd.Context())
			if err != nil {
				return err
			}
			items = solicitudes.AplicarFiltros(items, filtros)

			if len(items) == 0 {
				fmt.Println("Sin solicitudes.")
				return nil
			}
			t := nuevaTabla("Correlativo", "Acción", "Documento", "Fecha", "Estatus", "Creado por", "Seg.")
			for _, s := range items {
				t.Row(
					s.CorrelativoVisible(),
					s.TipoAccion.Etiqueta(),
					s.TipoDocumentoVisible(),
					s.FechaCreacion.Local().Format("02/01/2006 15:04"),
					s.EstatusEfectivo().Etiqueta(),
					s.CreadoPor.Etiqueta(),
					fmt.Sprintf("%d", s.SeguimientoCount),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
	flags.registrar(cmd)
	return cmd
}

// parseDoc interpreta "codigo;titulo;descripcion;justificacion".
func parseDoc(v string) (solicitudes.Documento, error) {
	parts := strings.SplitN(v, ";", 4)
	if len(parts) != 4 {
		return solicitudes.Documento{}, fmt.Errorf("--doc espera \"codigo;titulo;descripcion;justificacion\", llegó %q", v)
	}
	return solicitudes.Documento{
		Codigo:            strings.TrimSpace(parts[0]),
		TituloDocumento:   strings.TrimSpace(parts[1]),
		DescripcionCambio: strings.TrimSpace(parts[2]),
		Justificacion:     strings.TrimSpace(parts[3]),
	}, nil
}

func newSolicitudesCrearCmd(app func() *App) *cobra.Command {
	var accion, tipoDoc, otro string
	var docs []string

	cmd := &cobra.Command{
		Use:   "crear",
		Short: "Crea una solicitud de cambio de documentos",
		Example: `  easyrequest solicitudes crear --accion creacion --tipo-doc formulario \
    --doc "F-001;Registro de asistencia;Nuevo formato;Requerido por auditoría"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			in := solicitudes.CrearInput{
				TipoAccion:      solicitudes.TipoAccion(accion),
				TipoDocumento:   solicitudes.TipoDocumento(tipoDoc),
				OtroEspecifique: otro,
			}
			for _, raw := range docs {
				d, err := parseDoc(raw)
				if err != nil {
					return err
				}
				in.Documentos = append(in.Documentos, d)
			}
			if err := solicitudes.Validar(in); err != nil {
				return err
			}
			creada, err := app().API.CrearSolicitud(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Solicitud %s creada (%d documentos).\n", creada.CorrelativoVisible(), len(creada.Documentos))
			return nil
		},
	}
	cmd.Flags().StringVar(&accion, "accion", "", "tipo de acción (creacion|revision_actualizacion|eliminacion)")
	cmd.Flags().StringVar(&tipoDoc, "tipo-doc", "", "tipo de documento (formulario|procedimiento|instruccion_trabajo|otro)")
	cmd.Flags().StringVar(&otro, "otro", "", "especificación cuando el tipo es 'otro'")
	cmd.Flags().StringArrayVar(&docs, "doc", nil, "documento: \"codigo;titulo;descripcion;justificacion\" (repetible)")
	return cmd
}

func newSolicitudesEstatusCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estatus <id> <en_espera|en_proceso|ejecutado>",
		Short: "Cambia el estatus de una solicitud (admin/supervisor)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			actualizada, err := app().API.ActualizarEstatus(cmd.Context(), args[0], solicitudes.Estatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("Solicitud %s ahora está %s.\n", actualizada.CorrelativoVisible(), actualizada.EstatusEfectivo().Etiqueta())
			return nil
		},
	}
	return cmd
}

func newSolicitudesExportarCmd(app func() *App) *cobra.Command {
	var flags filtrosFlags
	var out string

	cmd := &cobra.Command{
		Use:   "exportar",
		Short: "Exporta el historial filtrado a un archivo Excel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			filtros, err := flags.aFiltros()
			if err != nil {
				return err
			}
			items, err := app().API.ListarSolicitudes(cmd.Context())
			if err != nil {
				return err
			}
			items = solicitudes.AplicarFiltros(items, filtros)

			ruta := out
			if ruta == "" {
				ruta = export.NombreArchivo(time.Now())
			}
			if err := export.Exportar(items, ruta); err != nil {
				return err
			}
			fmt.Printf("Exportadas %d solicitudes a %s\n", len(items), ruta)
			return nil
		},
	}
	flags.registrar(cmd)
	cmd.Flags().StringVar(&out, "out", "", "ruta del archivo xlsx (por defecto historial-solicitudes-<fecha>.xlsx)")
	return cmd
}

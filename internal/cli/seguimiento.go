package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/tui"
)

func newSeguimientoCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seguimiento <id|correlativo>",
		Short: "Abre el hilo de seguimiento de una solicitud (chat)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			user, _ := app().Session.Actual()

			// Aceptar correlativo (SL-n) además del id.
			items, err := app().API.ListarSolicitudes(cmd.Context())
			if err != nil {
				return err
			}
			objetivo, err := buscarSolicitud(items, args[0])
			if err != nil {
				return err
			}

			modelo := tui.New(app().API.Seguimiento(), objetivo.ID, objetivo.CorrelativoVisible(), user)
			p := tea.NewProgram(modelo, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

func buscarSolicitud(items []solicitudes.Solicitud, clave string) (solicitudes.Solicitud, error) {
	for _, s := range items {
		if s.ID == clave || s.Correlativo == clave {
			return s, nil
		}
	}
	return solicitudes.Solicitud{}, fmt.Errorf("no se encontró la solicitud %q", clave)
}

// Package cli define los comandos de la aplicación de terminal. Cada
// comando habla con el backend a través del cliente tipado; la sesión
// persistida alimenta el token de cada request.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"easy-request/internal/api"
	"easy-request/internal/platform/httpclient"
	"easy-request/internal/platform/logger"
	"easy-request/internal/session"
)

const apiURLDefault = "http://localhost:3000"

// App agrupa las dependencias que comparten todos los comandos.
type App struct {
	Log     *zap.Logger
	API     *api.Client
	Session *session.Store
}

// NewApp arma el cliente y la sesión a partir del entorno (API_URL).
func NewApp() (*App, error) {
	log := logger.NewFromEnv()

	baseURL := strings.TrimSpace(os.Getenv("API_URL"))
	if baseURL == "" {
		baseURL = apiURLDefault
	}

	hc, err := httpclient.New(baseURL, 15*time.Second)
	if err != nil {
		return nil, err
	}
	client := api.New(hc)

	path, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}
	sess := session.New(client, path)

	// El token sale siempre de la sesión; un 401 la limpia para no
	// reintentar con un token muerto.
	hc.TokenSource = sess.Token
	hc.OnUnauthorized = sess.Clear

	return &App{Log: log, API: client, Session: sess}, nil
}

// NewRootCmd construye el árbol de comandos completo.
func NewRootCmd() *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:   "easyrequest",
		Short: "Gestión de solicitudes de cambio de documentos",
		Long: `easyrequest gestiona solicitudes de creación, revisión o eliminación
de documentos del sistema de gestión, con seguimiento por solicitud.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			a, err := NewApp()
			if err != nil {
				return err
			}
			app = a
			return nil
		},
	}

	appRef := func() *App { return app }

	root.AddCommand(
		newLoginCmd(appRef),
		newRegistroCmd(appRef),
		newLogoutCmd(appRef),
		newWhoamiCmd(appRef),
		newSolicitudesCmd(appRef),
		newUsuariosCmd(appRef),
		newSeguimientoCmd(appRef),
	)

	return root
}

// Execute corre el CLI y traduce el error a exit code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", httpclient.Mensaje(err))
		os.Exit(1)
	}
}

// exigirSesion corta temprano cuando el comando necesita usuario.
func exigirSesion(app *App) error {
	if _, ok := app.Session.Actual(); !ok {
		return fmt.Errorf("no hay sesión activa; usa 'easyrequest login'")
	}
	return nil
}

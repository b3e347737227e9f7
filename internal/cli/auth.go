package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"easy-request/internal/api"
)

// leerPassword pide la contraseña sin eco; si stdin no es terminal
// (pipes, tests) la lee como línea normal.
func leerPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return line, nil
}

func newLoginCmd(app func() *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión y guarda la sesión en disco",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("falta --email")
			}
			if password == "" {
				p, err := leerPassword("Contraseña: ")
				if err != nil {
					return err
				}
				password = p
			}
			u, err := app().Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Sesión iniciada como %s (%s)\n", u.Name, u.Role.Etiqueta())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email de la cuenta")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (si se omite, se pide)")
	return cmd
}

func newRegistroCmd(app func() *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "registro",
		Short: "Crea una cuenta nueva (rol usuario) e inicia sesión",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
				return fmt.Errorf("faltan --nombre y/o --email")
			}
			if password == "" {
				p, err := leerPassword("Contraseña: ")
				if err != nil {
					return err
				}
				password = p
			}
			u, err := app().Session.Registrar(cmd.Context(), api.RegisterPayload{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Cuenta creada. Sesión iniciada como %s\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "nombre", "", "nombre completo")
	cmd.Flags().StringVar(&email, "email", "", "email de la cuenta")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (si se omite, se pide)")
	return cmd
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión y borra el archivo de sesión",
		RunE: func(_ *cobra.Command, _ []string) error {
			app().Session.Logout()
			fmt.Println("Sesión cerrada.")
			return nil
		},
	}
}

func newWhoamiCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra el usuario de la sesión actual",
		RunE: func(_ *cobra.Command, _ []string) error {
			u, ok := app().Session.Actual()
			if !ok {
				fmt.Println("Sin sesión activa.")
				return nil
			}
			fmt.Printf("%s <%s> %s\n", u.Name, u.Email, u.Role.Etiqueta())
			return nil
		},
	}
}

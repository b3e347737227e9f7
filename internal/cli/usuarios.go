package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"easy-request/internal/api"
	"easy-request/internal/domain/usuarios"
)

func newUsuariosCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usuarios",
		Short: "Administra cuentas de usuario (solo admin)",
	}
	cmd.AddCommand(
		newUsuariosListarCmd(app),
		newUsuariosEditarCmd(app),
		newUsuariosDeshabilitarCmd(app),
		newUsuariosHabilitarCmd(app),
		newUsuariosEliminarCmd(app),
		newUsuariosResetPasswordCmd(app),
	)
	return cmd
}

func estadoDe(u usuarios.UserAdmin) string {
	if u.Disabled {
		return "Deshabilitado"
	}
	return "Activo"
}

func newUsuariosListarCmd(app func() *App) *cobra.Command {
	var search, role, estado string

	cmd := &cobra.Command{
		Use:   "listar",
		Short: "Lista las cuentas, con filtros opcionales",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			items, err := app().API.ListarUsuarios(cmd.Context())
			if err != nil {
				return err
			}
			items = usuarios.AplicarFiltros(items, usuarios.Filtros{
				Search: search,
				Role:   usuarios.Role(role),
				Estado: usuarios.Estado(estado),
			})

			if len(items) == 0 {
				fmt.Println("Sin usuarios.")
				return nil
			}
			t := nuevaTabla("ID", "Nombre", "Email", "Rol", "Estado")
			for _, u := range items {
				t.Row(u.ID, u.Name, u.Email, u.Role.Etiqueta(), estadoDe(u))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "buscar", "", "busca por nombre o email")
	cmd.Flags().StringVar(&role, "rol", "", "filtra por rol (admin|supervisor|normal)")
	cmd.Flags().StringVar(&estado, "estado", "", "filtra por estado (activo|deshabilitado)")
	return cmd
}

func newUsuariosEditarCmd(app func() *App) *cobra.Command {
	var name, email, role string

	cmd := &cobra.Command{
		Use:   "editar <id>",
		Short: "Edita nombre, email o rol de una cuenta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			var payload api.UpdateUserPayload
			if cmd.Flags().Changed("nombre") {
				payload.Name = &name
			}
			if cmd.Flags().Changed("email") {
				payload.Email = &email
			}
			if cmd.Flags().Changed("rol") {
				r := usuarios.Role(role)
				payload.Role = &r
			}
			if payload.Name == nil && payload.Email == nil && payload.Role == nil {
				return fmt.Errorf("nada que editar; usa --nombre, --email o --rol")
			}
			u, err := app().API.ActualizarUsuario(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			fmt.Printf("Usuario %s actualizado (%s).\n", u.Name, u.Role.Etiqueta())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "nombre", "", "nuevo nombre")
	cmd.Flags().StringVar(&email, "email", "", "nuevo email")
	cmd.Flags().StringVar(&role, "rol", "", "nuevo rol (admin|supervisor|normal)")
	return cmd
}

func newUsuariosDeshabilitarCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deshabilitar <id>",
		Short: "Deshabilita una cuenta (no podrá iniciar sesión)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			u, err := app().API.DeshabilitarUsuario(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Usuario %s deshabilitado.\n", u.Name)
			return nil
		},
	}
}

func newUsuariosHabilitarCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "habilitar <id>",
		Short: "Rehabilita una cuenta deshabilitada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			u, err := app().API.HabilitarUsuario(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Usuario %s habilitado.\n", u.Name)
			return nil
		},
	}
}

func newUsuariosEliminarCmd(app func() *App) *cobra.Command {
	var confirmar bool

	cmd := &cobra.Command{
		Use:   "eliminar <id>",
		Short: "Elimina una cuenta definitivamente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			if !confirmar {
				return fmt.Errorf("operación destructiva; confirma con --si")
			}
			resp, err := app().API.EliminarUsuario(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmar, "si", false, "confirma la eliminación")
	return cmd
}

func newUsuariosResetPasswordCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Restablece la contraseña y muestra la temporal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := exigirSesion(app()); err != nil {
				return err
			}
			resp, err := app().API.ResetPassword(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s (usuario: %s)\n", resp.Message, resp.User.Email)
			return nil
		},
	}
}

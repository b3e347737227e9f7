package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/domain/usuarios"
	"easy-request/internal/server/store"
)

var ErrUltimoAdmin = errors.New("no se puede quitar el último administrador")

// UsuariosService cubre la administración de cuentas. Todas las
// operaciones exigen rol admin; las que quitan privilegios o acceso
// protegen al último admin activo.
type UsuariosService struct {
	users  store.UsuariosRepo
	tokens *Tokens
}

func NewUsuariosService(users store.UsuariosRepo, tokens *Tokens) *UsuariosService {
	return &UsuariosService{users: users, tokens: tokens}
}

func (s *UsuariosService) exigirAdmin(quien store.Usuario) error {
	if !quien.Role.PuedeAdministrar() {
		return ErrForbidden
	}
	return nil
}

func (s *UsuariosService) Listar(ctx context.Context, quien store.Usuario) ([]usuarios.UserAdmin, error) {
	if err := s.exigirAdmin(quien); err != nil {
		return nil, err
	}
	recs, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]usuarios.UserAdmin, 0, len(recs))
	for _, u := range recs {
		out = append(out, u.AdminView())
	}
	return out, nil
}

func (s *UsuariosService) Obtener(ctx context.Context, quien store.Usuario, id string) (usuarios.UserAdmin, error) {
	if err := s.exigirAdmin(quien); err != nil {
		return usuarios.UserAdmin{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return usuarios.UserAdmin{}, err
	}
	return u.AdminView(), nil
}

// Actualizar aplica un PATCH parcial: solo los campos presentes.
func (s *UsuariosService) Actualizar(ctx context.Context, quien store.Usuario, id string, name, email *string, role *usuarios.Role) (usuarios.UserAdmin, error) {
	if err := s.exigirAdmin(quien); err != nil {
		return usuarios.UserAdmin{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return usuarios.UserAdmin{}, err
	}
	if name != nil {
		if len(strings.TrimSpace(*name)) < 2 {
			return usuarios.UserAdmin{}, fmt.Errorf("%w: el nombre debe tener al menos 2 caracteres", solicitudes.ErrInvalidInput)
		}
		u.Name = strings.TrimSpace(*name)
	}
	if email != nil {
		if !strings.Contains(*email, "@") {
			return usuarios.UserAdmin{}, fmt.Errorf("%w: email inválido", solicitudes.ErrInvalidInput)
		}
		u.Email = strings.ToLower(*email)
	}
	if role != nil {
		if !role.Valido() {
			return usuarios.UserAdmin{}, fmt.Errorf("%w: rol desconocido", solicitudes.ErrInvalidInput)
		}
		if u.Role == usuarios.RoleAdmin && *role != usuarios.RoleAdmin {
			if err := s.verificarOtroAdmin(ctx, id); err != nil {
				return usuarios.UserAdmin{}, err
			}
		}
		u.Role = *role
	}
	if err := s.users.Update(ctx, u); err != nil {
		return usuarios.UserAdmin{}, err
	}
	return u.AdminView(), nil
}

func (s *UsuariosService) Deshabilitar(ctx context.Context, quien store.Usuario, id string) (usuarios.UserAdmin, error) {
	return s.setDisabled(ctx, quien, id, true)
}

func (s *UsuariosService) Habilitar(ctx context.Context, quien store.Usuario, id string) (usuarios.UserAdmin, error) {
	return s.setDisabled(ctx, quien, id, false)
}

func (s *UsuariosService) setDisabled(ctx context.Context, quien store.Usuario, id string, disabled bool) (usuarios.UserAdmin, error) {
	if err := s.exigirAdmin(quien); err != nil {
		return usuarios.UserAdmin{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return usuarios.UserAdmin{}, err
	}
	if disabled && u.Role == usuarios.RoleAdmin {
		if err := s.verificarOtroAdmin(ctx, id); err != nil {
			return usuarios.UserAdmin{}, err
		}
	}
	u.Disabled = disabled
	if err := s.users.Update(ctx, u); err != nil {
		return usuarios.UserAdmin{}, err
	}
	if disabled {
		s.tokens.RevocarDeUsuario(id)
	}
	return u.AdminView(), nil
}

func (s *UsuariosService) Eliminar(ctx context.Context, quien store.Usuario, id string) error {
	if err := s.exigirAdmin(quien); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == usuarios.RoleAdmin {
		if err := s.verificarOtroAdmin(ctx, id); err != nil {
			return err
		}
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.tokens.RevocarDeUsuario(id)
	return nil
}

// ResetPassword genera una contraseña temporal y la devuelve en el
// mensaje (el backend de desarrollo no envía correos).
func (s *UsuariosService) ResetPassword(ctx context.Context, quien store.Usuario, id string) (string, usuarios.UserAdmin, error) {
	if err := s.exigirAdmin(quien); err != nil {
		return "", usuarios.UserAdmin{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", usuarios.UserAdmin{}, err
	}
	temporal, err := passwordTemporal()
	if err != nil {
		return "", usuarios.UserAdmin{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temporal), bcrypt.DefaultCost)
	if err != nil {
		return "", usuarios.UserAdmin{}, err
	}
	u.PasswordHash = string(hash)
	if err := s.users.Update(ctx, u); err != nil {
		return "", usuarios.UserAdmin{}, err
	}
	s.tokens.RevocarDeUsuario(id)
	msg := fmt.Sprintf("Contraseña restablecida. Temporal: %s", temporal)
	return msg, u.AdminView(), nil
}

func (s *UsuariosService) verificarOtroAdmin(ctx context.Context, exceptoID string) error {
	todos, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range todos {
		if u.ID != exceptoID && u.Role == usuarios.RoleAdmin && !u.Disabled {
			return nil
		}
	}
	return ErrUltimoAdmin
}

func passwordTemporal() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

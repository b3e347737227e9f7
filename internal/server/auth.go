package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"easy-request/internal/domain/usuarios"
	"easy-request/internal/server/store"
)

var (
	ErrCredenciales        = errors.New("credenciales inválidas")
	ErrCuentaDeshabilitada = errors.New("la cuenta está deshabilitada")
)

// AuthService registra cuentas y autentica. El registro siempre crea
// rol normal; los roles elevados se asignan después por un admin.
type AuthService struct {
	users  store.UsuariosRepo
	tokens *Tokens
	now    func() time.Time
}

func NewAuthService(users store.UsuariosRepo, tokens *Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

func validarRegistro(name, email, password string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return errors.New("el nombre debe tener al menos 2 caracteres")
	}
	if !strings.Contains(email, "@") || strings.TrimSpace(email) != email {
		return errors.New("email inválido")
	}
	if len(password) < 6 {
		return errors.New("la contraseña debe tener al menos 6 caracteres")
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (store.Usuario, string, error) {
	if err := validarRegistro(name, email, password); err != nil {
		return store.Usuario{}, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return store.Usuario{}, "", err
	}
	u := store.Usuario{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(email),
		Role:         usuarios.RoleNormal,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return store.Usuario{}, "", err
	}
	return u, s.tokens.Emitir(u.ID), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (store.Usuario, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return store.Usuario{}, "", ErrCredenciales
	}
	if err != nil {
		return store.Usuario{}, "", err
	}
	if u.Disabled {
		return store.Usuario{}, "", ErrCuentaDeshabilitada
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return store.Usuario{}, "", ErrCredenciales
	}
	return u, s.tokens.Emitir(u.ID), nil
}

// Autenticar resuelve un token a su usuario. Token desconocido o
// cuenta deshabilitada equivalen a no autenticado.
func (s *AuthService) Autenticar(ctx context.Context, token string) (store.Usuario, bool) {
	id, ok := s.tokens.Resolver(token)
	if !ok {
		return store.Usuario{}, false
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil || u.Disabled {
		return store.Usuario{}, false
	}
	return u, true
}

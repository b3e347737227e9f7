// Package session gestiona la sesión del usuario: login/registro/
// logout y la persistencia de {user, token} como una sola unidad en un
// archivo JSON. No hay singleton global: el Store se inyecta a quien
// necesite identidad o token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"easy-request/internal/api"
	"easy-request/internal/domain/usuarios"
)

// AuthAPI es lo que el Store necesita del backend de auth.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (api.AuthResponse, error)
	Register(ctx context.Context, payload api.RegisterPayload) (api.AuthResponse, error)
}

// DefaultPath devuelve la ruta del archivo de sesión
// (~/.config/easy-request/session.json o equivalente del SO).
// EASY_REQUEST_SESSION la sobreescribe.
func DefaultPath() (string, error) {
	if v := strings.TrimSpace(os.Getenv("EASY_REQUEST_SESSION")); v != "" {
		return v, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "easy-request", "session.json"), nil
}

type persisted struct {
	User  usuarios.User `json:"user"`
	Token string        `json:"token"`
}

type Store struct {
	auth AuthAPI
	path string

	mu    sync.Mutex
	user  usuarios.User
	token string
	vivo  bool
}

// New crea el Store e hidrata la sesión persistida si existe y es
// válida (archivo corrupto o incompleto => sin sesión, nunca error).
func New(auth AuthAPI, path string) *Store {
	s := &Store{auth: auth, path: path}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	if p.User.ID == "" || p.User.Email == "" || !p.User.Role.Valido() || p.Token == "" {
		return
	}
	s.user = p.User
	s.token = p.Token
	s.vivo = true
}

// Actual devuelve el usuario autenticado, si hay sesión.
func (s *Store) Actual() (usuarios.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.vivo
}

// Token devuelve el token actual o "" (para httpclient.TokenSource).
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Login autentica y persiste {user, token} como unidad.
func (s *Store) Login(ctx context.Context, email, password string) (usuarios.User, error) {
	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return usuarios.User{}, err
	}
	return resp.User, s.guardar(resp)
}

// Registrar crea la cuenta (rol normal) e inicia sesión.
func (s *Store) Registrar(ctx context.Context, payload api.RegisterPayload) (usuarios.User, error) {
	resp, err := s.auth.Register(ctx, payload)
	if err != nil {
		return usuarios.User{}, err
	}
	return resp.User, s.guardar(resp)
}

func (s *Store) guardar(resp api.AuthResponse) error {
	if resp.Token == "" || resp.User.ID == "" {
		return errors.New("session: respuesta de auth incompleta")
	}

	raw, err := json.MarshalIndent(persisted{User: resp.User, Token: resp.Token}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = resp.User
	s.token = resp.Token
	s.vivo = true
	s.mu.Unlock()
	return nil
}

// Logout limpia usuario y token atómicamente (memoria + disco).
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = usuarios.User{}
	s.token = ""
	s.vivo = false
	s.mu.Unlock()

	_ = os.Remove(s.path)
}

// Clear es el hook para el 401 del httpclient: sesión fuera.
func (s *Store) Clear() {
	s.Logout()
}

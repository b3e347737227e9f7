package api

import (
	"context"
	"net/http"

	"easy-request/internal/domain/usuarios"
)

const authBase = "/api/auth"

// AuthResponse es la respuesta de login y register.
type AuthResponse struct {
	User  usuarios.User `json:"user"`
	Token string        `json:"token"`
}

type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login: email + password, el backend devuelve user + token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var out AuthResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, authBase+"/login", body, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Register: solo crea usuarios con rol "normal" en el backend.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (AuthResponse, error) {
	var out AuthResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, authBase+"/register", payload, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

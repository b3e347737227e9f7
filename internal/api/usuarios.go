package api

import (
	"context"
	"fmt"
	"net/http"

	"easy-request/internal/domain/usuarios"
)

const usersBase = "/api/users"

// UpdateUserPayload es un PATCH real: nil = no tocar el campo.
type UpdateUserPayload struct {
	Name  *string        `json:"name,omitempty"`
	Email *string        `json:"email,omitempty"`
	Role  *usuarios.Role `json:"role,omitempty"`
}

// MensajeResponse es la respuesta {message} de las operaciones simples.
type MensajeResponse struct {
	Message string `json:"message"`
}

// ResetPasswordResponse incluye el usuario y el mensaje con la
// contraseña temporal generada.
type ResetPasswordResponse struct {
	Message string             `json:"message"`
	User    usuarios.UserAdmin `json:"user"`
}

func (c *Client) ListarUsuarios(ctx context.Context) ([]usuarios.UserAdmin, error) {
	var out []usuarios.UserAdmin
	if err := c.http.DoJSON(ctx, http.MethodGet, usersBase, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []usuarios.UserAdmin{}
	}
	return out, nil
}

func (c *Client) ObtenerUsuario(ctx context.Context, id string) (usuarios.UserAdmin, error) {
	var out usuarios.UserAdmin
	if err := c.http.DoJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%s", usersBase, id), nil, &out); err != nil {
		return usuarios.UserAdmin{}, err
	}
	return out, nil
}

func (c *Client) ActualizarUsuario(ctx context.Context, id string, payload UpdateUserPayload) (usuarios.UserAdmin, error) {
	var out usuarios.UserAdmin
	if err := c.http.DoJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/%s", usersBase, id), payload, &out); err != nil {
		return usuarios.UserAdmin{}, err
	}
	return out, nil
}

func (c *Client) DeshabilitarUsuario(ctx context.Context, id string) (usuarios.UserAdmin, error) {
	var out usuarios.UserAdmin
	if err := c.http.DoJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/%s/disable", usersBase, id), nil, &out); err != nil {
		return usuarios.UserAdmin{}, err
	}
	return out, nil
}

func (c *Client) HabilitarUsuario(ctx context.Context, id string) (usuarios.UserAdmin, error) {
	var out usuarios.UserAdmin
	if err := c.http.DoJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/%s/enable", usersBase, id), nil, &out); err != nil {
		return usuarios.UserAdmin{}, err
	}
	return out, nil
}

func (c *Client) EliminarUsuario(ctx context.Context, id string) (MensajeResponse, error) {
	var out MensajeResponse
	if err := c.http.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%s", usersBase, id), nil, &out); err != nil {
		return MensajeResponse{}, err
	}
	return out, nil
}

func (c *Client) ResetPassword(ctx context.Context, id string) (ResetPasswordResponse, error) {
	var out ResetPasswordResponse
	if err := c.http.DoJSON(ctx, http.MethodPatch, fmt.Sprintf("%s/%s/reset-password", usersBase, id), nil, &out); err != nil {
		return ResetPasswordResponse{}, err
	}
	return out, nil
}

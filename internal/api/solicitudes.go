package api

import (
	"context"
	"fmt"
	"net/http"

	"easy-request/internal/domain/solicitudes"
)

const solicitudesBase = "/api/solicitudes"

// ListarSolicitudes trae el historial visible para el usuario actual
// (el backend decide el alcance según el rol).
func (c *Client) ListarSolicitudes(ctx context.Context) ([]solicitudes.Solicitud, error) {
	var out []solicitudes.Solicitud
	if err := c.http.DoJSON(ctx, http.MethodGet, solicitudesBase, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []solicitudes.Solicitud{}
	}
	return out, nil
}

// CrearSolicitud registra una solicitud nueva.
func (c *Client) CrearSolicitud(ctx context.Context, in solicitudes.CrearInput) (solicitudes.Solicitud, error) {
	var out solicitudes.Solicitud
	if err := c.http.DoJSON(ctx, http.MethodPost, solicitudesBase, in, &out); err != nil {
		return solicitudes.Solicitud{}, err
	}
	return out, nil
}

// ActualizarEstatus cambia el estatus de una solicitud. Solo
// admin/supervisor (el backend devuelve 403 a rol normal).
func (c *Client) ActualizarEstatus(ctx context.Context, id string, estatus solicitudes.Estatus) (solicitudes.Solicitud, error) {
	body := map[string]solicitudes.Estatus{"estatus": estatus}
	var out solicitudes.Solicitud
	path := fmt.Sprintf("%s/%s/estatus", solicitudesBase, id)
	if err := c.http.DoJSON(ctx, http.MethodPatch, path, body, &out); err != nil {
		return solicitudes.Solicitud{}, err
	}
	return out, nil
}

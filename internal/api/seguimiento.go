package api

import (
	"context"
	"fmt"
	"net/http"

	"easy-request/internal/domain/seguimiento"
)

// ListarSeguimiento trae el hilo completo de una solicitud, en orden.
func (c *Client) ListarSeguimiento(ctx context.Context, solicitudID string) ([]seguimiento.Seguimiento, error) {
	var out []seguimiento.Seguimiento
	path := fmt.Sprintf("%s/%s/seguimiento", solicitudesBase, solicitudID)
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []seguimiento.Seguimiento{}
	}
	return out, nil
}

// CrearSeguimiento añade un comentario (con adjuntos opcionales).
func (c *Client) CrearSeguimiento(ctx context.Context, solicitudID string, payload seguimiento.CrearPayload) (seguimiento.Seguimiento, error) {
	var out seguimiento.Seguimiento
	path := fmt.Sprintf("%s/%s/seguimiento", solicitudesBase, solicitudID)
	if err := c.http.DoJSON(ctx, http.MethodPost, path, payload, &out); err != nil {
		return seguimiento.Seguimiento{}, err
	}
	return out, nil
}

type seguimientoAPI struct {
	c *Client
}

func (s seguimientoAPI) Listar(ctx context.Context, solicitudID string) ([]seguimiento.Seguimiento, error) {
	return s.c.ListarSeguimiento(ctx, solicitudID)
}

func (s seguimientoAPI) Crear(ctx context.Context, solicitudID string, payload seguimiento.CrearPayload) (seguimiento.Seguimiento, error) {
	return s.c.CrearSeguimiento(ctx, solicitudID, payload)
}

// Seguimiento adapta el cliente a la interfaz que espera el
// controlador del hilo.
func (c *Client) Seguimiento() seguimiento.API {
	return seguimientoAPI{c: c}
}

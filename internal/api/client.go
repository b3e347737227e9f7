// Package api expone accessors tipados para cada recurso del backend
// de solicitudes. Toda petición pasa por el wrapper httpclient, que
// añade el Bearer token y normaliza errores.
package api

import (
	"easy-request/internal/platform/httpclient"
)

type Client struct {
	http *httpclient.Client
}

func New(http *httpclient.Client) *Client {
	return &Client{http: http}
}

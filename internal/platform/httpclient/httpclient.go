package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
)

// MensajeSinConexion es el mensaje fijo para fallos de red/transporte.
const MensajeSinConexion = "No se pudo conectar con el backend. Comprueba que esté en marcha."

// Client envuelve *http.Client para hablar JSON con el backend.
// Añade el token Bearer cuando TokenSource lo provee y normaliza
// toda respuesta no-2xx a *APIError.
type Client struct {
	HTTP    *http.Client
	BaseURL string

	// TokenSource devuelve el token actual, o "" si no hay sesión.
	TokenSource func() string

	// OnUnauthorized se invoca en cada 401 (la sesión debe limpiarse).
	OnUnauthorized func()
}

// New crea un Client con BaseURL + timeout.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("httpclient: base url required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
		},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(baseURL string, timeout time.Duration, tr http.RoundTripper) (*Client, error) {
	c, err := New(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	if tr != nil {
		c.HTTP.Transport = tr
	}
	return c, nil
}

// APIError representa cualquier fallo de una petición:
// - StatusCode 0: fallo de red/transporte (mensaje fijo).
// - 4xx/5xx: mensaje del backend (campo "message") o el body crudo.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api error: %s", e.Message)
	}
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

// Mensaje extrae el mensaje para UI de cualquier error. Los *APIError
// traen el mensaje del backend (o el fijo de conexión si fue fallo de
// transporte); cualquier otro error se muestra tal cual, nunca como
// problema de conexión.
func Mensaje(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MensajeSinConexion
	}
	return err.Error()
}

// DoJSON hace un request JSON.
// - method: GET/POST/etc
// - path: relativo a BaseURL (con o sin "/" inicial)
// - in: body a enviar (opcional). Si nil => no body.
// - out: donde decodificar JSON (opcional). Si nil => ignora body.
// Retorna *APIError si el status no es 2xx o si la red falla.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("httpclient: empty path")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.TokenSource != nil {
		if token := strings.TrimSpace(c.TokenSource()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &APIError{StatusCode: 0, Message: MensajeSinConexion}
	}
	defer resp.Body.Close()

	// Leer body (limitado) para errores / decode
	raw, _ := readAtMost(resp.Body, 1<<20) // 1MB max

	if resp.StatusCode == http.StatusUnauthorized && c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    mensajeDeRespuesta(resp.StatusCode, raw),
		}
	}

	if out == nil {
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}

	return nil
}

// mensajeDeRespuesta prioriza el campo "message" del backend;
// si no viene, usa el body crudo o el texto estándar del status.
func mensajeDeRespuesta(status int, raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return http.StatusText(status)
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = 1 << 20
	}
	lr := io.LimitReader(r, max)
	return io.ReadAll(lr)
}

package seguimiento

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"easy-request/internal/domain/usuarios"
	"easy-request/internal/platform/httpclient"
)

// API es lo único que el controlador necesita del backend.
type API interface {
	Listar(ctx context.Context, solicitudID string) ([]Seguimiento, error)
	Crear(ctx context.Context, solicitudID string, payload CrearPayload) (Seguimiento, error)
}

// Estado de carga del hilo.
type Estado int

const (
	EstadoInicial Estado = iota
	EstadoCargando
	EstadoCargado
	EstadoError
)

// Evento que el controlador emite hacia la capa de presentación.
type Evento int

const (
	// EventoLista: la lista (o el composer) cambió; re-renderizar.
	EventoLista Evento = iota
	// EventoScrollFinal: hay que hacer scroll al último mensaje.
	EventoScrollFinal
	// EventoError: hay un mensaje de error que mostrar inline.
	EventoError
)

var ErrTextoVacio = errors.New("el texto del comentario es obligatorio")

// Controller gestiona el hilo de seguimiento de una solicitud abierta:
// carga con descarte de respuestas obsoletas, envío optimista con
// rollback, y acumulación de adjuntos pendientes. Seguro para uso
// concurrente: la UI lanza las operaciones en goroutines.
type Controller struct {
	api         API
	solicitudID string
	autor       usuarios.User
	notify      func(Evento)

	now         func() time.Time
	nuevoTempID func() string

	mu       sync.Mutex
	estado   Estado
	entradas []Entrada
	errMsg   string

	// Composer: texto escrito y adjuntos acumulados aún no enviados.
	borrador string
	adjuntos []Adjunto

	// gen numera cada Cargar emitido; solo la emisión más reciente
	// puede aplicar su resultado (last-write-wins por orden de emisión,
	// no de finalización).
	gen      uint64
	enviando int
}

// NewController crea el controlador del hilo de una solicitud.
// notify puede ser nil (sin señales hacia la presentación).
func NewController(api API, solicitudID string, autor usuarios.User, notify func(Evento)) *Controller {
	return &Controller{
		api:         api,
		solicitudID: solicitudID,
		autor:       autor,
		notify:      notify,
		now:         time.Now,
		nuevoTempID: func() string { return "pendiente-" + uuid.NewString() },
	}
}

// Snapshot es una copia consistente del estado para renderizar.
type Snapshot struct {
	Estado   Estado
	Entradas []Entrada
	Error    string
	Borrador string
	Adjuntos []Adjunto
	Enviando bool
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	entradas := make([]Entrada, len(c.entradas))
	copy(entradas, c.entradas)
	adjuntos := make([]Adjunto, len(c.adjuntos))
	copy(adjuntos, c.adjuntos)

	return Snapshot{
		Estado:   c.estado,
		Entradas: entradas,
		Error:    c.errMsg,
		Borrador: c.borrador,
		Adjuntos: adjuntos,
		Enviando: c.enviando > 0,
	}
}

func (c *Controller) SolicitudID() string { return c.solicitudID }

// Cargar trae la lista completa del hilo y reemplaza el estado local.
// Si mientras tanto se emitió un Cargar más nuevo, el resultado de este
// se descarta (nunca pisa al más reciente). El reintento tras un error
// es simplemente otro Cargar.
func (c *Controller) Cargar(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	g := c.gen
	c.estado = EstadoCargando
	c.errMsg = ""
	c.mu.Unlock()
	c.emit(EventoLista)

	lista, err := c.api.Listar(ctx, c.solicitudID)

	c.mu.Lock()
	if g != c.gen {
		// Respuesta obsoleta: hay una carga más nueva en vuelo o aplicada.
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.estado = EstadoError
		c.entradas = nil
		c.errMsg = httpclient.Mensaje(err)
		c.mu.Unlock()
		c.emit(EventoLista)
		c.emit(EventoError)
		return err
	}

	entradas := make([]Entrada, 0, len(lista))
	for _, s := range lista {
		entradas = append(entradas, Entrada{Seguimiento: s})
	}
	c.estado = EstadoCargado
	c.entradas = entradas
	c.mu.Unlock()

	c.emit(EventoLista)
	c.emit(EventoScrollFinal)
	return nil
}

// SetBorrador guarda el texto escrito en el composer.
func (c *Controller) SetBorrador(texto string) {
	c.mu.Lock()
	c.borrador = texto
	c.mu.Unlock()
}

func (c *Controller) Borrador() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.borrador
}

// Adjuntar lee el contenido y lo acumula en los adjuntos pendientes.
// Varias llamadas concurrentes acumulan, nunca se pisan.
func (c *Controller) Adjuntar(nombre string, r io.Reader) (Adjunto, error) {
	adj, err := LeerAdjunto(nombre, r)
	if err != nil {
		return Adjunto{}, err
	}

	c.mu.Lock()
	c.adjuntos = append(c.adjuntos, adj)
	c.mu.Unlock()
	c.emit(EventoLista)
	return adj, nil
}

// AdjuntarArchivo acumula un archivo del disco.
func (c *Controller) AdjuntarArchivo(ruta string) (Adjunto, error) {
	adj, err := LeerAdjuntoArchivo(ruta)
	if err != nil {
		return Adjunto{}, err
	}

	c.mu.Lock()
	c.adjuntos = append(c.adjuntos, adj)
	c.mu.Unlock()
	c.emit(EventoLista)
	return adj, nil
}

// QuitarAdjunto descarta un adjunto pendiente por posición.
func (c *Controller) QuitarAdjunto(i int) {
	c.mu.Lock()
	if i >= 0 && i < len(c.adjuntos) {
		c.adjuntos = append(c.adjuntos[:i], c.adjuntos[i+1:]...)
	}
	c.mu.Unlock()
	c.emit(EventoLista)
}

// Enviar publica el borrador actual como comentario optimista: aparece
// de inmediato marcado como pendiente y el composer se vacía. Al
// confirmar, el backend reemplaza la entrada en la misma posición
// (reconciliada por TempID, nunca por índice). Si falla, la entrada se
// retira y lo escrito vuelve al composer para reintentar. Si una
// recarga reemplazó la lista durante el envío, el comentario confirmado
// se reincorpora al final (sin duplicar si la recarga ya lo trajo).
// Envíos concurrentes son independientes entre sí.
func (c *Controller) Enviar(ctx context.Context) error {
	c.mu.Lock()
	texto := strings.TrimSpace(c.borrador)
	if texto == "" {
		c.mu.Unlock()
		return ErrTextoVacio
	}

	adjuntos := make([]Adjunto, len(c.adjuntos))
	copy(adjuntos, c.adjuntos)

	tempID := c.nuevoTempID()
	c.entradas = append(c.entradas, Entrada{
		Seguimiento: Seguimiento{
			ID:          tempID,
			SolicitudID: c.solicitudID,
			Texto:       texto,
			Adjuntos:    adjuntos,
			Fecha:       c.now(),
			Autor:       usuarios.RefExpandido(c.autor.ID, c.autor.Name, c.autor.Email),
		},
		Pendiente: true,
		TempID:    tempID,
	})
	c.borrador = ""
	c.adjuntos = nil
	c.errMsg = ""
	c.enviando++
	c.mu.Unlock()

	c.emit(EventoLista)
	c.emit(EventoScrollFinal)

	payload := CrearPayload{Texto: texto}
	if len(adjuntos) > 0 {
		payload.Adjuntos = adjuntos
	}
	creado, err := c.api.Crear(ctx, c.solicitudID, payload)

	c.mu.Lock()
	c.enviando--
	if err != nil {
		c.entradas = sinTempID(c.entradas, tempID)
		// Recuperar lo escrito para que el usuario pueda reintentar
		// (si no empezó a escribir otra cosa mientras tanto).
		if strings.TrimSpace(c.borrador) == "" {
			c.borrador = texto
		}
		if len(c.adjuntos) == 0 {
			c.adjuntos = adjuntos
		}
		c.errMsg = httpclient.Mensaje(err)
		c.mu.Unlock()
		c.emit(EventoLista)
		c.emit(EventoError)
		return err
	}

	reconciliada := false
	for i := range c.entradas {
		if c.entradas[i].Pendiente && c.entradas[i].TempID == tempID {
			c.entradas[i] = Entrada{Seguimiento: creado}
			reconciliada = true
			break
		}
	}
	// Si una recarga reemplazó la lista mientras el envío estaba en
	// vuelo, la entrada optimista ya no existe: el comentario confirmado
	// se reincorpora al final, salvo que la recarga ya lo trajera.
	if !reconciliada && !contieneID(c.entradas, creado.ID) {
		c.entradas = append(c.entradas, Entrada{Seguimiento: creado})
	}
	c.mu.Unlock()

	c.emit(EventoLista)
	c.emit(EventoScrollFinal)
	return nil
}

func (c *Controller) emit(ev Evento) {
	if c.notify != nil {
		c.notify(ev)
	}
}

func contieneID(entradas []Entrada, id string) bool {
	for _, e := range entradas {
		if e.ID == id {
			return true
		}
	}
	return false
}

func sinTempID(entradas []Entrada, tempID string) []Entrada {
	out := entradas[:0]
	for _, e := range entradas {
		if e.Pendiente && e.TempID == tempID {
			continue
		}
		out = append(out, e)
	}
	return out
}

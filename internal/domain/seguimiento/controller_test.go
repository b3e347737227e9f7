package seguimiento

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"easy-request/internal/domain/usuarios"
	"easy-request/internal/platform/httpclient"
)

var autorPrueba = usuarios.User{ID: "u1", Name: "Ana Pérez", Email: "ana@acme.com", Role: usuarios.RoleNormal}

// apiFake permite controlar desde el test cuándo responde cada llamada.
type apiFake struct {
	mu sync.Mutex

	listarFn func(llamada int) ([]Seguimiento, error)
	crearFn  func(payload CrearPayload) (Seguimiento, error)

	llamadasListar int
	creados        []CrearPayload
}

func (f *apiFake) Listar(_ context.Context, _ string) ([]Seguimiento, error) {
	f.mu.Lock()
	f.llamadasListar++
	n := f.llamadasListar
	fn := f.listarFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(n)
}

func (f *apiFake) Crear(_ context.Context, _ string, payload CrearPayload) (Seguimiento, error) {
	f.mu.Lock()
	f.creados = append(f.creados, payload)
	fn := f.crearFn
	f.mu.Unlock()
	if fn == nil {
		return Seguimiento{}, errors.New("sin crearFn")
	}
	return fn(payload)
}

// esperar reintenta cond hasta que se cumpla o venza el plazo.
func esperar(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condición no cumplida en el plazo")
}

func TestCargarPueblaElHiloEnOrden(t *testing.T) {
	api := &apiFake{
		listarFn: func(int) ([]Seguimiento, error) {
			return []Seguimiento{
				{ID: "s1", Texto: "primero"},
				{ID: "s2", Texto: "segundo"},
			}, nil
		},
	}
	c := NewController(api, "sol1", autorPrueba, nil)

	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	snap := c.Snapshot()
	if snap.Estado != EstadoCargado {
		t.Fatalf("esperaba EstadoCargado, llegó %v", snap.Estado)
	}
	if len(snap.Entradas) != 2 || snap.Entradas[0].ID != "s1" || snap.Entradas[1].ID != "s2" {
		t.Fatalf("hilo mal poblado: %+v", snap.Entradas)
	}
}

func TestCargarConErrorDejaEstadoErrorConMensaje(t *testing.T) {
	api := &apiFake{
		listarFn: func(int) ([]Seguimiento, error) {
			return nil, &httpclient.APIError{StatusCode: 500, Message: "error interno"}
		},
	}
	c := NewController(api, "sol1", autorPrueba, nil)

	if err := c.Cargar(context.Background()); err == nil {
		t.Fatalf("esperaba error")
	}

	snap := c.Snapshot()
	if snap.Estado != EstadoError {
		t.Fatalf("esperaba EstadoError, llegó %v", snap.Estado)
	}
	if snap.Error != "error interno" {
		t.Fatalf("mensaje inesperado: %q", snap.Error)
	}

	// El reintento es simplemente otro Cargar.
	api.mu.Lock()
	api.listarFn = func(int) ([]Seguimiento, error) { return []Seguimiento{{ID: "s1"}}, nil }
	api.mu.Unlock()
	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("reintento: %v", err)
	}
	if snap := c.Snapshot(); snap.Estado != EstadoCargado || snap.Error != "" {
		t.Fatalf("el reintento debería limpiar el error: %+v", snap)
	}
}

func TestCargarDescartaRespuestaObsoleta(t *testing.T) {
	// La primera carga queda en vuelo hasta que el test la libere; la
	// segunda resuelve primero. El resultado final debe ser el de la
	// segunda (orden de emisión, no de finalización).
	primeraEnVuelo := make(chan struct{})
	liberarPrimera := make(chan struct{})

	api := &apiFake{}
	api.listarFn = func(llamada int) ([]Seguimiento, error) {
		if llamada == 1 {
			close(primeraEnVuelo)
			<-liberarPrimera
			return []Seguimiento{{ID: "viejo"}}, nil
		}
		return []Seguimiento{{ID: "nuevo"}}, nil
	}
	c := NewController(api, "sol1", autorPrueba, nil)

	done := make(chan struct{})
	go func() {
		_ = c.Cargar(context.Background())
		close(done)
	}()
	<-primeraEnVuelo

	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("segunda carga: %v", err)
	}

	close(liberarPrimera)
	<-done

	snap := c.Snapshot()
	if len(snap.Entradas) != 1 || snap.Entradas[0].ID != "nuevo" {
		t.Fatalf("la respuesta obsoleta pisó a la más reciente: %+v", snap.Entradas)
	}
}

func TestEnviarOptimistaYReconciliacionEnPosicion(t *testing.T) {
	liberarCrear := make(chan struct{})
	api := &apiFake{
		listarFn: func(int) ([]Seguimiento, error) {
			return []Seguimiento{{ID: "s1", Texto: "hola"}}, nil
		},
		crearFn: func(payload CrearPayload) (Seguimiento, error) {
			<-liberarCrear
			return Seguimiento{
				ID:       "abc123",
				Texto:    payload.Texto,
				Adjuntos: payload.Adjuntos,
				Fecha:    time.Now(),
				Autor:    usuarios.RefExpandido("u1", "Ana Pérez", "ana@acme.com"),
			}, nil
		},
	}
	c := NewController(api, "sol1", autorPrueba, nil)
	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	// 1) Enviar: la entrada aparece de inmediato como pendiente y el
	//    composer queda vacío.
	c.SetBorrador("nuevo comentario")
	errCh := make(chan error, 1)
	go func() { errCh <- c.Enviar(context.Background()) }()

	esperar(t, func() bool { return len(c.Snapshot().Entradas) == 2 })
	snap := c.Snapshot()
	pendiente := snap.Entradas[1]
	if !pendiente.Pendiente || !strings.HasPrefix(pendiente.ID, "pendiente-") {
		t.Fatalf("la entrada optimista debe estar pendiente con id temporal: %+v", pendiente)
	}
	if !pendiente.EsMia(autorPrueba.ID) {
		t.Fatalf("la entrada optimista debe ser del autor")
	}
	if snap.Borrador != "" {
		t.Fatalf("el composer debería vaciarse al enviar")
	}
	if !snap.Enviando {
		t.Fatalf("Enviando debería ser true con un envío en vuelo")
	}

	// 2) Confirmación: misma posición, id real, sin marca de pendiente.
	close(liberarCrear)
	if err := <-errCh; err != nil {
		t.Fatalf("Enviar: %v", err)
	}
	snap = c.Snapshot()
	if len(snap.Entradas) != 2 {
		t.Fatalf("la confirmación no debe duplicar: %+v", snap.Entradas)
	}
	confirmada := snap.Entradas[1]
	if confirmada.Pendiente || confirmada.ID != "abc123" {
		t.Fatalf("la entrada no se reconcilió: %+v", confirmada)
	}
	if snap.Enviando {
		t.Fatalf("Enviando debería volver a false")
	}
}

func TestEnviarConfirmaAunqueUnaRecargaPisaraLaPendiente(t *testing.T) {
	liberarCrear := make(chan struct{})
	api := &apiFake{
		listarFn: func(int) ([]Seguimiento, error) {
			// El backend aún no refleja el comentario en vuelo.
			return []Seguimiento{{ID: "s1", Texto: "hola"}}, nil
		},
		crearFn: func(payload CrearPayload) (Seguimiento, error) {
			<-liberarCrear
			return Seguimiento{ID: "abc123", Texto: payload.Texto}, nil
		},
	}
	c := NewController(api, "sol1", autorPrueba, nil)
	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	c.SetBorrador("en vuelo")
	errCh := make(chan error, 1)
	go func() { errCh <- c.Enviar(context.Background()) }()
	esperar(t, func() bool { return len(c.Snapshot().Entradas) == 2 })

	// Una recarga reemplaza la lista y se lleva la entrada optimista.
	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("recarga: %v", err)
	}
	if got := len(c.Snapshot().Entradas); got != 1 {
		t.Fatalf("la recarga debería reemplazar el estado local: %d entradas", got)
	}

	close(liberarCrear)
	if err := <-errCh; err != nil {
		t.Fatalf("Enviar: %v", err)
	}

	// El comentario confirmado no se pierde: vuelve al final del hilo.
	snap := c.Snapshot()
	if len(snap.Entradas) != 2 {
		t.Fatalf("esperaba 2 entradas tras confirmar: %+v", snap.Entradas)
	}
	ultima := snap.Entradas[1]
	if ultima.ID != "abc123" || ultima.Pendiente {
		t.Fatalf("el comentario confirmado debería reincorporarse: %+v", ultima)
	}
}

func TestEnviarNoDuplicaSiLaRecargaYaTraeLoConfirmado(t *testing.T) {
	liberarCrear := make(chan struct{})
	api := &apiFake{
		listarFn: func(llamada int) ([]Seguimiento, error) {
			if llamada == 1 {
				return []Seguimiento{{ID: "s1", Texto: "hola"}}, nil
			}
			// La recarga posterior ya incluye el comentario persistido.
			return []Seguimiento{
				{ID: "s1", Texto: "hola"},
				{ID: "abc123", Texto: "en vuelo"},
			}, nil
		},
		crearFn: func(payload CrearPayload) (Seguimiento, error) {
			<-liberarCrear
			return Seguimiento{ID: "abc123", Texto: payload.Texto}, nil
		},
	}
	c := NewController(api, "sol1", autorPrueba, nil)
	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	c.SetBorrador("en vuelo")
	errCh := make(chan error, 1)
	go func() { errCh <- c.Enviar(context.Background()) }()
	esperar(t, func() bool { return len(c.Snapshot().Entradas) == 2 })

	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("recarga: %v", err)
	}

	close(liberarCrear)
	if err := <-errCh; err != nil {
		t.Fatalf("Enviar: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Entradas) != 2 {
		t.Fatalf("la confirmación no debe duplicar lo que trajo la recarga: %+v", snap.Entradas)
	}
}

func TestEnviarConFalloRetiraLaEntradaYRestauraElBorrador(t *testing.T) {
	api := &apiFake{
		listarFn: func(int) ([]Seguimiento, error) {
			return []Seguimiento{{ID: "s1"}}, nil
		},
		crearFn: func(CrearPayload) (Seguimiento, error) {
			return Seguimiento{}, &httpclient.APIError{StatusCode: 500, Message: "backend caído"}
		},
	}
	c := NewController(api, "sol1", autorPrueba, nil)
	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}

	c.SetBorrador("se va a perder?")
	if _, err := c.Adjuntar("nota.txt", strings.NewReader("contenido")); err != nil {
		t.Fatalf("Adjuntar: %v", err)
	}

	if err := c.Enviar(context.Background()); err == nil {
		t.Fatalf("esperaba error del envío")
	}

	snap := c.Snapshot()
	if len(snap.Entradas) != 1 {
		t.Fatalf("la entrada optimista debería retirarse: %+v", snap.Entradas)
	}
	if snap.Borrador != "se va a perder?" {
		t.Fatalf("el borrador debería restaurarse para reintentar, llegó %q", snap.Borrador)
	}
	if len(snap.Adjuntos) != 1 || snap.Adjuntos[0].NombreArchivo != "nota.txt" {
		t.Fatalf("los adjuntos deberían restaurarse: %+v", snap.Adjuntos)
	}
	if snap.Error != "backend caído" {
		t.Fatalf("mensaje de error inesperado: %q", snap.Error)
	}
}

func TestEnviarNoRestauraSiElUsuarioYaEscribioOtraCosa(t *testing.T) {
	liberarCrear := make(chan struct{})
	api := &apiFake{
		crearFn: func(CrearPayload) (Seguimiento, error) {
			<-liberarCrear
			return Seguimiento{}, errors.New("falló")
		},
	}
	c := NewController(api, "sol1", autorPrueba, nil)

	c.SetBorrador("primer intento")
	errCh := make(chan error, 1)
	go func() { errCh <- c.Enviar(context.Background()) }()
	esperar(t, func() bool { return len(c.Snapshot().Entradas) == 1 })

	// Mientras el envío está en vuelo, el usuario escribe otra cosa.
	c.SetBorrador("otra cosa")

	close(liberarCrear)
	<-errCh

	if got := c.Snapshot().Borrador; got != "otra cosa" {
		t.Fatalf("el rollback no debe pisar lo que el usuario escribió: %q", got)
	}
}

func TestEnviarConTextoVacio(t *testing.T) {
	c := NewController(&apiFake{}, "sol1", autorPrueba, nil)
	c.SetBorrador("   ")
	if err := c.Enviar(context.Background()); !errors.Is(err, ErrTextoVacio) {
		t.Fatalf("esperaba ErrTextoVacio, llegó %v", err)
	}
	if len(c.Snapshot().Entradas) != 0 {
		t.Fatalf("no debería haber entradas")
	}
}

func TestAdjuntarConcurrenteAcumulaTodos(t *testing.T) {
	c := NewController(&apiFake{}, "sol1", autorPrueba, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Adjuntar("archivo.txt", strings.NewReader("x")); err != nil {
				t.Errorf("Adjuntar: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(c.Snapshot().Adjuntos); got != 10 {
		t.Fatalf("esperaba 10 adjuntos acumulados, llegó %d", got)
	}

	c.QuitarAdjunto(0)
	if got := len(c.Snapshot().Adjuntos); got != 9 {
		t.Fatalf("QuitarAdjunto debería dejar 9, llegó %d", got)
	}
}

func TestEnviarIncluyeAdjuntosYLosLimpia(t *testing.T) {
	api := &apiFake{
		crearFn: func(payload CrearPayload) (Seguimiento, error) {
			return Seguimiento{ID: "ok", Texto: payload.Texto, Adjuntos: payload.Adjuntos}, nil
		},
	}
	c := NewController(api, "sol1", autorPrueba, nil)

	c.SetBorrador("con adjunto")
	if _, err := c.Adjuntar("foto.png", strings.NewReader("png")); err != nil {
		t.Fatalf("Adjuntar: %v", err)
	}
	if err := c.Enviar(context.Background()); err != nil {
		t.Fatalf("Enviar: %v", err)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.creados) != 1 || len(api.creados[0].Adjuntos) != 1 {
		t.Fatalf("el payload debería llevar el adjunto: %+v", api.creados)
	}
	if got := len(c.Snapshot().Adjuntos); got != 0 {
		t.Fatalf("los adjuntos pendientes deberían limpiarse al enviar")
	}
}

func TestEventosDeCargaYEnvio(t *testing.T) {
	api := &apiFake{
		listarFn: func(int) ([]Seguimiento, error) { return nil, nil },
		crearFn: func(payload CrearPayload) (Seguimiento, error) {
			return Seguimiento{ID: "ok", Texto: payload.Texto}, nil
		},
	}

	var mu sync.Mutex
	var eventos []Evento
	c := NewController(api, "sol1", autorPrueba, func(ev Evento) {
		mu.Lock()
		eventos = append(eventos, ev)
		mu.Unlock()
	})

	if err := c.Cargar(context.Background()); err != nil {
		t.Fatalf("Cargar: %v", err)
	}
	c.SetBorrador("hola")
	if err := c.Enviar(context.Background()); err != nil {
		t.Fatalf("Enviar: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	var scrolls int
	for _, ev := range eventos {
		if ev == EventoScrollFinal {
			scrolls++
		}
	}
	// Uno al terminar la carga y dos por el envío (optimista + confirmación).
	if scrolls != 3 {
		t.Fatalf("esperaba 3 eventos de scroll, llegó %d (%v)", scrolls, eventos)
	}
}

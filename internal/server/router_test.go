package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"easy-request/internal/api"
	"easy-request/internal/domain/seguimiento"
	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/domain/usuarios"
	"easy-request/internal/platform/httpclient"
)

// clienteDePrueba arma un cliente tipado contra el server de test.
// El token se inyecta por puntero para poder cambiar de actor.
func clienteDePrueba(t *testing.T, baseURL string) (*api.Client, *string) {
	t.Helper()
	token := new(string)
	hc, err := httpclient.New(baseURL, 5*time.Second)
	if err != nil {
		t.Fatalf("httpclient.New: %v", err)
	}
	hc.TokenSource = func() string { return *token }
	return api.New(hc), token
}

func TestFlujoCompletoDeSolicitudes(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Options{}))
	defer srv.Close()
	ctx := context.Background()

	admin, adminTok := clienteDePrueba(t, srv.URL)
	normal, normalTok := clienteDePrueba(t, srv.URL)

	// 1) El admin semilla inicia sesión.
	authAdmin, err := admin.Login(ctx, "admin@easy-request.local", "admin123")
	if err != nil {
		t.Fatalf("login admin: %v", err)
	}
	*adminTok = authAdmin.Token
	if authAdmin.User.Role != usuarios.RoleAdmin {
		t.Fatalf("el admin semilla debería tener rol admin: %+v", authAdmin.User)
	}

	// 2) Un usuario nuevo se registra (siempre rol normal).
	authNormal, err := normal.Register(ctx, api.RegisterPayload{
		Name:     "Ana Pérez",
		Email:    "ana@acme.com",
		Password: "secreta1",
	})
	if err != nil {
		t.Fatalf("registro: %v", err)
	}
	*normalTok = authNormal.Token
	if authNormal.User.Role != usuarios.RoleNormal {
		t.Fatalf("el registro debería dar rol normal: %+v", authNormal.User)
	}

	// 3) El usuario crea una solicitud: correlativo SL-1, en espera.
	creada, err := normal.CrearSolicitud(ctx, solicitudes.CrearInput{
		TipoAccion:    solicitudes.AccionCreacion,
		TipoDocumento: solicitudes.DocumentoFormulario,
		Documentos: []solicitudes.Documento{{
			Codigo:            "F-001",
			TituloDocumento:   "Registro de asistencia",
			DescripcionCambio: "Alta del formato",
			Justificacion:     "Requerido por auditoría",
		}},
	})
	if err != nil {
		t.Fatalf("crear solicitud: %v", err)
	}
	if creada.Correlativo != "SL-1" {
		t.Fatalf("esperaba correlativo SL-1, llegó %q", creada.Correlativo)
	}
	if creada.EstatusEfectivo() != solicitudes.EstatusEnEspera {
		t.Fatalf("una solicitud nueva debería estar en espera")
	}

	// 4) Un payload inválido se rechaza con el mensaje del validador.
	_, err = normal.CrearSolicitud(ctx, solicitudes.CrearInput{
		TipoAccion:    solicitudes.AccionCreacion,
		TipoDocumento: solicitudes.DocumentoFormulario,
	})
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 {
		t.Fatalf("esperaba 400 por payload inválido, llegó %v", err)
	}
	if !strings.Contains(apiErr.Message, "documento") {
		t.Fatalf("el mensaje del validador debería llegar al cliente: %q", apiErr.Message)
	}

	// 5) El usuario normal ve solo lo suyo, con el creador sin expandir.
	lista, err := normal.ListarSolicitudes(ctx)
	if err != nil {
		t.Fatalf("listar (normal): %v", err)
	}
	if len(lista) != 1 || lista[0].ID != creada.ID {
		t.Fatalf("el normal debería ver solo su solicitud: %+v", lista)
	}
	if lista[0].CreadoPor.Expandida() {
		t.Fatalf("para rol normal el creador no se expande")
	}

	// 6) Cambiar estatus con rol normal => 403.
	_, err = normal.ActualizarEstatus(ctx, creada.ID, solicitudes.EstatusEnProceso)
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 403 {
		t.Fatalf("esperaba 403, llegó %v", err)
	}

	// 7) El admin ve todo, con creador expandido.
	lista, err = admin.ListarSolicitudes(ctx)
	if err != nil {
		t.Fatalf("listar (admin): %v", err)
	}
	if len(lista) != 1 {
		t.Fatalf("el admin debería ver la solicitud: %+v", lista)
	}
	if !lista[0].CreadoPor.Expandida() || lista[0].CreadoPor.Name != "Ana Pérez" {
		t.Fatalf("para admin el creador viene poblado: %+v", lista[0].CreadoPor)
	}
	if lista[0].SeguimientoCount != 0 {
		t.Fatalf("sin comentarios el conteo es 0")
	}

	// 8) El admin cambia el estatus.
	actualizada, err := admin.ActualizarEstatus(ctx, creada.ID, solicitudes.EstatusEnProceso)
	if err != nil {
		t.Fatalf("actualizar estatus: %v", err)
	}
	if actualizada.Estatus != solicitudes.EstatusEnProceso {
		t.Fatalf("estatus no aplicado: %+v", actualizada)
	}

	// 9) Seguimiento: el creador comenta con adjunto; el autor vuelve
	//    expandido y el conteo del admin sube.
	comentario, err := normal.CrearSeguimiento(ctx, creada.ID, seguimiento.CrearPayload{
		Texto:    "¿Cómo va la revisión?",
		Adjuntos: []seguimiento.Adjunto{{NombreArchivo: "nota.txt", URL: "data:text/plain;base64,aG9sYQ=="}},
	})
	if err != nil {
		t.Fatalf("crear seguimiento: %v", err)
	}
	if !comentario.Autor.Expandida() || comentario.Autor.Email != "ana@acme.com" {
		t.Fatalf("el autor debería venir poblado: %+v", comentario.Autor)
	}

	hilo, err := admin.ListarSeguimiento(ctx, creada.ID)
	if err != nil {
		t.Fatalf("listar seguimiento: %v", err)
	}
	if len(hilo) != 1 || hilo[0].Texto != "¿Cómo va la revisión?" {
		t.Fatalf("hilo inesperado: %+v", hilo)
	}
	if len(hilo[0].Adjuntos) != 1 || hilo[0].Adjuntos[0].NombreArchivo != "nota.txt" {
		t.Fatalf("el adjunto debería persistir: %+v", hilo[0].Adjuntos)
	}

	lista, err = admin.ListarSolicitudes(ctx)
	if err != nil {
		t.Fatalf("listar (admin, tras comentar): %v", err)
	}
	if lista[0].SeguimientoCount != 1 {
		t.Fatalf("el conteo de seguimiento debería ser 1: %+v", lista[0])
	}

	// 10) Sin token => 401.
	anonimo, _ := clienteDePrueba(t, srv.URL)
	_, err = anonimo.ListarSolicitudes(ctx)
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Fatalf("sin token esperaba 401, llegó %v", err)
	}
}

func TestAdministracionDeUsuarios(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Options{}))
	defer srv.Close()
	ctx := context.Background()

	admin, adminTok := clienteDePrueba(t, srv.URL)
	normal, normalTok := clienteDePrueba(t, srv.URL)

	authAdmin, err := admin.Login(ctx, "admin@easy-request.local", "admin123")
	if err != nil {
		t.Fatalf("login admin: %v", err)
	}
	*adminTok = authAdmin.Token

	authNormal, err := normal.Register(ctx, api.RegisterPayload{
		Name:     "Carlos Ruiz",
		Email:    "carlos@acme.com",
		Password: "secreta1",
	})
	if err != nil {
		t.Fatalf("registro: %v", err)
	}
	*normalTok = authNormal.Token
	carlosID := authNormal.User.ID

	// 1) Registrar el mismo email de nuevo => 409.
	var apiErr *httpclient.APIError
	_, err = normal.Register(ctx, api.RegisterPayload{Name: "Otro", Email: "carlos@acme.com", Password: "secreta1"})
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 409 {
		t.Fatalf("email duplicado esperaba 409, llegó %v", err)
	}

	// 2) El listado de usuarios es solo para admin.
	_, err = normal.ListarUsuarios(ctx)
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 403 {
		t.Fatalf("listar usuarios con rol normal esperaba 403, llegó %v", err)
	}
	users, err := admin.ListarUsuarios(ctx)
	if err != nil {
		t.Fatalf("listar usuarios: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("esperaba 2 usuarios (admin + carlos): %+v", users)
	}

	// 3) PATCH parcial: solo cambia el rol.
	rol := usuarios.RoleSupervisor
	editado, err := admin.ActualizarUsuario(ctx, carlosID, api.UpdateUserPayload{Role: &rol})
	if err != nil {
		t.Fatalf("actualizar usuario: %v", err)
	}
	if editado.Role != usuarios.RoleSupervisor || editado.Name != "Carlos Ruiz" {
		t.Fatalf("el PATCH debería tocar solo el rol: %+v", editado)
	}

	// 4) Deshabilitar bloquea el login y revoca los tokens vivos.
	if _, err := admin.DeshabilitarUsuario(ctx, carlosID); err != nil {
		t.Fatalf("deshabilitar: %v", err)
	}
	_, err = normal.Login(ctx, "carlos@acme.com", "secreta1")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 403 {
		t.Fatalf("login deshabilitado esperaba 403, llegó %v", err)
	}
	_, err = normal.ListarSolicitudes(ctx)
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Fatalf("el token del deshabilitado debería quedar revocado, llegó %v", err)
	}

	// 5) Habilitar lo deja entrar de nuevo.
	if _, err := admin.HabilitarUsuario(ctx, carlosID); err != nil {
		t.Fatalf("habilitar: %v", err)
	}
	if _, err := normal.Login(ctx, "carlos@acme.com", "secreta1"); err != nil {
		t.Fatalf("login tras habilitar: %v", err)
	}

	// 6) Reset de contraseña: la temporal del mensaje sirve para entrar.
	resp, err := admin.ResetPassword(ctx, carlosID)
	if err != nil {
		t.Fatalf("reset password: %v", err)
	}
	temporal := resp.Message[strings.LastIndex(resp.Message, " ")+1:]
	if temporal == "" || resp.User.ID != carlosID {
		t.Fatalf("respuesta de reset inesperada: %+v", resp)
	}
	if _, err := normal.Login(ctx, "carlos@acme.com", "secreta1"); err == nil {
		t.Fatalf("la contraseña vieja no debería servir tras el reset")
	}
	if _, err := normal.Login(ctx, "carlos@acme.com", temporal); err != nil {
		t.Fatalf("login con la temporal: %v", err)
	}

	// 7) El último admin activo está protegido.
	_, err = admin.DeshabilitarUsuario(ctx, authAdmin.User.ID)
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 403 {
		t.Fatalf("deshabilitar al último admin esperaba 403, llegó %v", err)
	}

	// 8) Eliminar la cuenta la saca del listado.
	if _, err := admin.EliminarUsuario(ctx, carlosID); err != nil {
		t.Fatalf("eliminar: %v", err)
	}
	users, err = admin.ListarUsuarios(ctx)
	if err != nil {
		t.Fatalf("listar usuarios: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("tras eliminar debería quedar solo el admin: %+v", users)
	}
	_, err = admin.ObtenerUsuario(ctx, carlosID)
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Fatalf("obtener eliminado esperaba 404, llegó %v", err)
	}
}

func TestEliminarUsuarioConActividad(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Options{}))
	defer srv.Close()
	ctx := context.Background()

	admin, adminTok := clienteDePrueba(t, srv.URL)
	normal, normalTok := clienteDePrueba(t, srv.URL)

	authAdmin, err := admin.Login(ctx, "admin@easy-request.local", "admin123")
	if err != nil {
		t.Fatalf("login admin: %v", err)
	}
	*adminTok = authAdmin.Token

	authNormal, err := normal.Register(ctx, api.RegisterPayload{
		Name:     "Lucía Gómez",
		Email:    "lucia@acme.com",
		Password: "secreta1",
	})
	if err != nil {
		t.Fatalf("registro: %v", err)
	}
	*normalTok = authNormal.Token

	creada, err := normal.CrearSolicitud(ctx, solicitudes.CrearInput{
		TipoAccion:    solicitudes.AccionRevision,
		TipoDocumento: solicitudes.DocumentoProcedim,
		Documentos: []solicitudes.Documento{{
			Codigo:            "P-010",
			TituloDocumento:   "Control de registros",
			DescripcionCambio: "Actualizar responsables",
			Justificacion:     "Cambio de organigrama",
		}},
	})
	if err != nil {
		t.Fatalf("crear solicitud: %v", err)
	}
	if _, err := normal.CrearSeguimiento(ctx, creada.ID, seguimiento.CrearPayload{Texto: "primer avance"}); err != nil {
		t.Fatalf("crear seguimiento: %v", err)
	}

	// 1) Eliminar una cuenta con solicitudes y comentarios no falla.
	if _, err := admin.EliminarUsuario(ctx, authNormal.User.ID); err != nil {
		t.Fatalf("eliminar usuario con actividad: %v", err)
	}

	// 2) La solicitud sigue sirviéndose; el creador ya no se expande.
	lista, err := admin.ListarSolicitudes(ctx)
	if err != nil {
		t.Fatalf("listar tras eliminar: %v", err)
	}
	if len(lista) != 1 || lista[0].ID != creada.ID {
		t.Fatalf("la solicitud debería seguir en el listado: %+v", lista)
	}
	if lista[0].CreadoPor.Expandida() {
		t.Fatalf("el creador eliminado no debería expandirse: %+v", lista[0].CreadoPor)
	}
	if lista[0].SeguimientoCount != 1 {
		t.Fatalf("el conteo de seguimiento debería conservarse: %+v", lista[0])
	}

	// 3) El hilo también, con el autor sin expandir.
	hilo, err := admin.ListarSeguimiento(ctx, creada.ID)
	if err != nil {
		t.Fatalf("listar seguimiento tras eliminar: %v", err)
	}
	if len(hilo) != 1 || hilo[0].Autor.Expandida() {
		t.Fatalf("hilo inesperado tras eliminar al autor: %+v", hilo)
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/domain/usuarios"
	"easy-request/internal/server/store"
)

var ErrForbidden = errors.New("no tiene permisos para esta acción")

// SolicitudesService implementa las reglas del recurso: correlativo
// secuencial, alcance por rol al listar y populate del creador solo
// para roles elevados.
type SolicitudesService struct {
	solicitudes  store.SolicitudesRepo
	seguimientos store.SeguimientosRepo
	users        store.UsuariosRepo
	now          func() time.Time
}

func NewSolicitudesService(s store.SolicitudesRepo, seg store.SeguimientosRepo, users store.UsuariosRepo) *SolicitudesService {
	return &SolicitudesService{solicitudes: s, seguimientos: seg, users: users, now: time.Now}
}

func (s *SolicitudesService) Crear(ctx context.Context, creador store.Usuario, in solicitudes.CrearInput) (solicitudes.Solicitud, error) {
	if err := solicitudes.Validar(in); err != nil {
		return solicitudes.Solicitud{}, err
	}
	n, err := s.solicitudes.Count(ctx)
	if err != nil {
		return solicitudes.Solicitud{}, err
	}
	rec := store.Solicitud{
		ID:              uuid.NewString(),
		Correlativo:     fmt.Sprintf("SL-%d", n+1),
		TipoAccion:      in.TipoAccion,
		TipoDocumento:   in.TipoDocumento,
		OtroEspecifique: in.OtroEspecifique,
		Documentos:      in.Documentos,
		FechaCreacion:   s.now().UTC(),
		CreadoPorID:     creador.ID,
		Estatus:         solicitudes.EstatusEnEspera,
	}
	if err := s.solicitudes.Create(ctx, rec); err != nil {
		return solicitudes.Solicitud{}, err
	}
	return s.alWire(ctx, rec, creador.Role.PuedeVerTodas()), nil
}

// Listar devuelve las solicitudes visibles para quien consulta: todas
// para admin/supervisor (con creador expandido y conteo de
// seguimiento), solo las propias para rol normal.
func (s *SolicitudesService) Listar(ctx context.Context, quien store.Usuario) ([]solicitudes.Solicitud, error) {
	var recs []store.Solicitud
	var err error
	elevado := quien.Role.PuedeVerTodas()
	if elevado {
		recs, err = s.solicitudes.List(ctx)
	} else {
		recs, err = s.solicitudes.ListByCreador(ctx, quien.ID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]solicitudes.Solicitud, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.alWire(ctx, rec, elevado))
	}
	return out, nil
}

func (s *SolicitudesService) ActualizarEstatus(ctx context.Context, quien store.Usuario, id string, estatus solicitudes.Estatus) (solicitudes.Solicitud, error) {
	if !quien.Role.PuedeVerTodas() {
		return solicitudes.Solicitud{}, ErrForbidden
	}
	if !estatus.Valido() {
		return solicitudes.Solicitud{}, fmt.Errorf("%w: estatus desconocido", solicitudes.ErrInvalidInput)
	}
	if err := s.solicitudes.UpdateEstatus(ctx, id, estatus); err != nil {
		return solicitudes.Solicitud{}, err
	}
	rec, err := s.solicitudes.GetByID(ctx, id)
	if err != nil {
		return solicitudes.Solicitud{}, err
	}
	return s.alWire(ctx, rec, true), nil
}

// alWire arma la forma servida. Con populate se expande el creador y
// se añade el conteo de seguimiento; sin él, el creador queda como id
// opaco.
func (s *SolicitudesService) alWire(ctx context.Context, rec store.Solicitud, populate bool) solicitudes.Solicitud {
	out := solicitudes.Solicitud{
		ID:              rec.ID,
		Correlativo:     rec.Correlativo,
		TipoAccion:      rec.TipoAccion,
		TipoDocumento:   rec.TipoDocumento,
		OtroEspecifique: rec.OtroEspecifique,
		Documentos:      rec.Documentos,
		FechaCreacion:   rec.FechaCreacion,
		CreadoPor:       usuarios.RefID(rec.CreadoPorID),
		Estatus:         rec.Estatus,
	}
	if !populate {
		return out
	}
	if u, err := s.users.GetByID(ctx, rec.CreadoPorID); err == nil {
		out.CreadoPor = usuarios.RefExpandido(u.ID, u.Name, u.Email)
	}
	if n, err := s.seguimientos.CountBySolicitud(ctx, rec.ID); err == nil {
		out.SeguimientoCount = n
	}
	return out
}

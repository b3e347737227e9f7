package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"easy-request/internal/domain/seguimiento"
	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/domain/usuarios"
	"easy-request/internal/server/store"
)

// SeguimientoService gestiona el hilo de comentarios de una solicitud.
// El autor siempre se sirve expandido; la fecha la pone el servidor.
type SeguimientoService struct {
	seguimientos store.SeguimientosRepo
	solicitudes  store.SolicitudesRepo
	users        store.UsuariosRepo
	now          func() time.Time
}

func NewSeguimientoService(seg store.SeguimientosRepo, sol store.SolicitudesRepo, users store.UsuariosRepo) *SeguimientoService {
	return &SeguimientoService{seguimientos: seg, solicitudes: sol, users: users, now: time.Now}
}

func (s *SeguimientoService) puedeVer(ctx context.Context, quien store.Usuario, solicitudID string) error {
	sol, err := s.solicitudes.GetByID(ctx, solicitudID)
	if err != nil {
		return err
	}
	if !quien.Role.PuedeVerTodas() && sol.CreadoPorID != quien.ID {
		return ErrForbidden
	}
	return nil
}

func (s *SeguimientoService) Listar(ctx context.Context, quien store.Usuario, solicitudID string) ([]seguimiento.Seguimiento, error) {
	if err := s.puedeVer(ctx, quien, solicitudID); err != nil {
		return nil, err
	}
	recs, err := s.seguimientos.ListBySolicitud(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	out := make([]seguimiento.Seguimiento, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.alWire(ctx, rec))
	}
	return out, nil
}

func (s *SeguimientoService) Crear(ctx context.Context, quien store.Usuario, solicitudID string, payload seguimiento.CrearPayload) (seguimiento.Seguimiento, error) {
	if err := s.puedeVer(ctx, quien, solicitudID); err != nil {
		return seguimiento.Seguimiento{}, err
	}
	if strings.TrimSpace(payload.Texto) == "" {
		return seguimiento.Seguimiento{}, fmt.Errorf("%w: el texto es obligatorio", solicitudes.ErrInvalidInput)
	}
	rec := store.Seguimiento{
		ID:          uuid.NewString(),
		SolicitudID: solicitudID,
		AutorID:     quien.ID,
		Texto:       payload.Texto,
		Adjuntos:    payload.Adjuntos,
		Fecha:       s.now().UTC(),
	}
	if err := s.seguimientos.Create(ctx, rec); err != nil {
		return seguimiento.Seguimiento{}, err
	}
	return s.alWire(ctx, rec), nil
}

func (s *SeguimientoService) alWire(ctx context.Context, rec store.Seguimiento) seguimiento.Seguimiento {
	autor := usuarios.RefID(rec.AutorID)
	if u, err := s.users.GetByID(ctx, rec.AutorID); err == nil {
		autor = usuarios.RefExpandido(u.ID, u.Name, u.Email)
	}
	adjuntos := rec.Adjuntos
	if adjuntos == nil {
		adjuntos = []seguimiento.Adjunto{}
	}
	return seguimiento.Seguimiento{
		ID:          rec.ID,
		SolicitudID: rec.SolicitudID,
		Texto:       rec.Texto,
		Adjuntos:    adjuntos,
		Fecha:       rec.Fecha,
		Autor:       autor,
	}
}

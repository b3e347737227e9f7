// Package store define los registros y repositorios del backend de
// desarrollo. Las implementaciones viven en store/memory y
// store/postgres; el router elige según DB_DSN.
package store

import (
	"context"
	"errors"
	"time"

	"easy-request/internal/domain/seguimiento"
	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/domain/usuarios"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailEnUso = errors.New("el email ya está registrado")
)

// Usuario es el registro completo de cuenta (incluye hash de password,
// que nunca sale por el API).
type Usuario struct {
	ID           string
	Name         string
	Email        string
	Role         usuarios.Role
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
}

func (u Usuario) View() usuarios.User {
	return usuarios.User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

func (u Usuario) AdminView() usuarios.UserAdmin {
	created := u.CreatedAt
	out := usuarios.UserAdmin{
		User:     u.View(),
		Disabled: u.Disabled,
	}
	if !created.IsZero() {
		out.CreatedAt = &created
	}
	return out
}

// Solicitud es el registro persistido (el creador se guarda por id; el
// populate se decide al servir según el rol del que consulta).
type Solicitud struct {
	ID              string
	Correlativo     string
	TipoAccion      solicitudes.TipoAccion
	TipoDocumento   solicitudes.TipoDocumento
	OtroEspecifique string
	Documentos      []solicitudes.Documento
	FechaCreacion   time.Time
	CreadoPorID     string
	Estatus         solicitudes.Estatus
}

// Seguimiento es el registro persistido de un comentario.
type Seguimiento struct {
	ID          string
	SolicitudID string
	AutorID     string
	Texto       string
	Adjuntos    []seguimiento.Adjunto
	Fecha       time.Time
}

type UsuariosRepo interface {
	Create(ctx context.Context, u Usuario) error
	GetByID(ctx context.Context, id string) (Usuario, error)
	GetByEmail(ctx context.Context, email string) (Usuario, error)
	List(ctx context.Context) ([]Usuario, error)
	Update(ctx context.Context, u Usuario) error
	Delete(ctx context.Context, id string) error
}

type SolicitudesRepo interface {
	Create(ctx context.Context, s Solicitud) error
	GetByID(ctx context.Context, id string) (Solicitud, error)
	List(ctx context.Context) ([]Solicitud, error)
	ListByCreador(ctx context.Context, creadorID string) ([]Solicitud, error)
	UpdateEstatus(ctx context.Context, id string, estatus solicitudes.Estatus) error
	Count(ctx context.Context) (int, error)
}

type SeguimientosRepo interface {
	Create(ctx context.Context, s Seguimiento) error
	ListBySolicitud(ctx context.Context, solicitudID string) ([]Seguimiento, error)
	CountBySolicitud(ctx context.Context, solicitudID string) (int, error)
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"easy-request/internal/domain/seguimiento"
	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/domain/usuarios"
	"easy-request/internal/server/store"
)

type UsuariosRepo struct {
	db *sql.DB
}

func NewUsuariosRepo(db *sql.DB) *UsuariosRepo {
	return &UsuariosRepo{db: db}
}

func esEmailDuplicado(err error) bool {
	// 23505 = unique_violation; el driver lo expone en el mensaje.
	return err != nil && strings.Contains(err.Error(), "23505")
}

func (r *UsuariosRepo) Create(ctx context.Context, u store.Usuario) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usuarios (id, name, email, role, password_hash, disabled, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, string(u.Role), u.PasswordHash, u.Disabled, u.CreatedAt)
	if esEmailDuplicado(err) {
		return store.ErrEmailEnUso
	}
	return err
}

func (r *UsuariosRepo) scanUsuario(row *sql.Row) (store.Usuario, error) {
	var u store.Usuario
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.PasswordHash, &u.Disabled, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Usuario{}, store.ErrNotFound
	}
	if err != nil {
		return store.Usuario{}, err
	}
	u.Role = usuarios.Role(role)
	return u, nil
}

func (r *UsuariosRepo) GetByID(ctx context.Context, id string) (store.Usuario, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, password_hash, disabled, created_at
		 FROM usuarios WHERE id = $1`, id)
	return r.scanUsuario(row)
}

func (r *UsuariosRepo) GetByEmail(ctx context.Context, email string) (store.Usuario, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, role, password_hash, disabled, created_at
		 FROM usuarios WHERE lower(email) = lower($1)`, email)
	return r.scanUsuario(row)
}

func (r *UsuariosRepo) List(ctx context.Context) ([]store.Usuario, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, role, password_hash, disabled, created_at
		 FROM usuarios ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Usuario
	for rows.Next() {
		var u store.Usuario
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &u.PasswordHash, &u.Disabled, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = usuarios.Role(role)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsuariosRepo) Update(ctx context.Context, u store.Usuario) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE usuarios
		 SET name = $2, email = $3, role = $4, password_hash = $5, disabled = $6
		 WHERE id = $1`,
		u.ID, u.Name, u.Email, string(u.Role), u.PasswordHash, u.Disabled)
	if esEmailDuplicado(err) {
		return store.ErrEmailEnUso
	}
	if err != nil {
		return err
	}
	return checkAfectado(res)
}

func (r *UsuariosRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAfectado(res)
}

type SolicitudesRepo struct {
	db *sql.DB
}

func NewSolicitudesRepo(db *sql.DB) *SolicitudesRepo {
	return &SolicitudesRepo{db: db}
}

const solicitudCols = `id, correlativo, tipo_accion, tipo_documento, otro_especifique,
	documentos, fecha_creacion, creado_por, estatus`

func (r *SolicitudesRepo) Create(ctx context.Context, s store.Solicitud) error {
	docs, err := json.Marshal(s.Documentos)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO solicitudes (`+solicitudCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Correlativo, string(s.TipoAccion), string(s.TipoDocumento),
		s.OtroEspecifique, docs, s.FechaCreacion, s.CreadoPorID, string(s.Estatus))
	return err
}

func scanSolicitud(scan func(dest ...any) error) (store.Solicitud, error) {
	var s store.Solicitud
	var accion, doc, estatus string
	var docsRaw []byte
	// creado_por queda NULL si el creador fue eliminado.
	var creadoPor sql.NullString
	err := scan(&s.ID, &s.Correlativo, &accion, &doc, &s.OtroEspecifique,
		&docsRaw, &s.FechaCreacion, &creadoPor, &estatus)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Solicitud{}, store.ErrNotFound
	}
	if err != nil {
		return store.Solicitud{}, err
	}
	s.CreadoPorID = creadoPor.String
	s.TipoAccion = solicitudes.TipoAccion(accion)
	s.TipoDocumento = solicitudes.TipoDocumento(doc)
	s.Estatus = solicitudes.Estatus(estatus)
	if err := json.Unmarshal(docsRaw, &s.Documentos); err != nil {
		return store.Solicitud{}, err
	}
	return s, nil
}

func (r *SolicitudesRepo) GetByID(ctx context.Context, id string) (store.Solicitud, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+solicitudCols+` FROM solicitudes WHERE id = $1`, id)
	return scanSolicitud(row.Scan)
}

func (r *SolicitudesRepo) listar(ctx context.Context, query string, args ...any) ([]store.Solicitud, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Solicitud
	for rows.Next() {
		s, err := scanSolicitud(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SolicitudesRepo) List(ctx context.Context) ([]store.Solicitud, error) {
	return r.listar(ctx,
		`SELECT `+solicitudCols+` FROM solicitudes ORDER BY fecha_creacion`)
}

func (r *SolicitudesRepo) ListByCreador(ctx context.Context, creadorID string) ([]store.Solicitud, error) {
	return r.listar(ctx,
		`SELECT `+solicitudCols+` FROM solicitudes WHERE creado_por = $1 ORDER BY fecha_creacion`,
		creadorID)
}

func (r *SolicitudesRepo) UpdateEstatus(ctx context.Context, id string, estatus solicitudes.Estatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE solicitudes SET estatus = $2 WHERE id = $1`, id, string(estatus))
	if err != nil {
		return err
	}
	return checkAfectado(res)
}

func (r *SolicitudesRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solicitudes`).Scan(&n)
	return n, err
}

type SeguimientosRepo struct {
	db *sql.DB
}

func NewSeguimientosRepo(db *sql.DB) *SeguimientosRepo {
	return &SeguimientosRepo{db: db}
}

func (r *SeguimientosRepo) Create(ctx context.Context, s store.Seguimiento) error {
	adjuntos, err := json.Marshal(s.Adjuntos)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO seguimientos (id, solicitud_id, autor_id, texto, adjuntos, fecha)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.SolicitudID, s.AutorID, s.Texto, adjuntos, s.Fecha)
	return err
}

func (r *SeguimientosRepo) ListBySolicitud(ctx context.Context, solicitudID string) ([]store.Seguimiento, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, solicitud_id, autor_id, texto, adjuntos, fecha
		 FROM seguimientos WHERE solicitud_id = $1 ORDER BY fecha`, solicitudID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Seguimiento
	for rows.Next() {
		var s store.Seguimiento
		var adjuntosRaw []byte
		var autor sql.NullString
		if err := rows.Scan(&s.ID, &s.SolicitudID, &autor, &s.Texto, &adjuntosRaw, &s.Fecha); err != nil {
			return nil, err
		}
		s.AutorID = autor.String
		var adjuntos []seguimiento.Adjunto
		if err := json.Unmarshal(adjuntosRaw, &adjuntos); err != nil {
			return nil, err
		}
		s.Adjuntos = adjuntos
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SeguimientosRepo) CountBySolicitud(ctx context.Context, solicitudID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seguimientos WHERE solicitud_id = $1`, solicitudID).Scan(&n)
	return n, err
}

func checkAfectado(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

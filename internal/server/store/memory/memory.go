// Package memory implementa los repositorios en mapas protegidos por
// mutex. Es el backend por defecto cuando no hay DB_DSN.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/server/store"
)

type UsuariosRepo struct {
	mu   sync.RWMutex
	byID map[string]store.Usuario
}

func NewUsuariosRepo() *UsuariosRepo {
	return &UsuariosRepo{byID: make(map[string]store.Usuario)}
}

func (r *UsuariosRepo) Create(_ context.Context, u store.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.byID {
		if strings.EqualFold(existente.Email, u.Email) {
			return store.ErrEmailEnUso
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *UsuariosRepo) GetByID(_ context.Context, id string) (store.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return store.Usuario{}, store.ErrNotFound
	}
	return u, nil
}

func (r *UsuariosRepo) GetByEmail(_ context.Context, email string) (store.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return store.Usuario{}, store.ErrNotFound
}

func (r *UsuariosRepo) List(_ context.Context) ([]store.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]store.Usuario, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UsuariosRepo) Update(_ context.Context, u store.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return store.ErrNotFound
	}
	for id, existente := range r.byID {
		if id != u.ID && strings.EqualFold(existente.Email, u.Email) {
			return store.ErrEmailEnUso
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *UsuariosRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type SolicitudesRepo struct {
	mu    sync.RWMutex
	items []store.Solicitud
}

func NewSolicitudesRepo() *SolicitudesRepo {
	return &SolicitudesRepo{}
}

func (r *SolicitudesRepo) Create(_ context.Context, s store.Solicitud) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, s)
	return nil
}

func (r *SolicitudesRepo) GetByID(_ context.Context, id string) (store.Solicitud, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.items {
		if s.ID == id {
			return s, nil
		}
	}
	return store.Solicitud{}, store.ErrNotFound
}

func (r *SolicitudesRepo) List(_ context.Context) ([]store.Solicitud, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]store.Solicitud, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *SolicitudesRepo) ListByCreador(_ context.Context, creadorID string) ([]store.Solicitud, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []store.Solicitud
	for _, s := range r.items {
		if s.CreadoPorID == creadorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SolicitudesRepo) UpdateEstatus(_ context.Context, id string, estatus solicitudes.Estatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Estatus = estatus
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *SolicitudesRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

type SeguimientosRepo struct {
	mu    sync.RWMutex
	items []store.Seguimiento
}

func NewSeguimientosRepo() *SeguimientosRepo {
	return &SeguimientosRepo{}
}

func (r *SeguimientosRepo) Create(_ context.Context, s store.Seguimiento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, s)
	return nil
}

func (r *SeguimientosRepo) ListBySolicitud(_ context.Context, solicitudID string) ([]store.Seguimiento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []store.Seguimiento
	for _, s := range r.items {
		if s.SolicitudID == solicitudID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SeguimientosRepo) CountBySolicitud(_ context.Context, solicitudID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.items {
		if s.SolicitudID == solicitudID {
			n++
		}
	}
	return n, nil
}

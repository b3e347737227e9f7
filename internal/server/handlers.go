package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"easy-request/internal/domain/seguimiento"
	"easy-request/internal/domain/solicitudes"
	"easy-request/internal/domain/usuarios"
	"easy-request/internal/server/store"
)

// Los errores van siempre como {"message": "..."} para que el cliente
// pueda mostrar el mensaje tal cual.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError mapea los errores de los services a su status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, solicitudes.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCredenciales):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrCuentaDeshabilitada), errors.Is(err, ErrUltimoAdmin):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "no encontrado")
	case errors.Is(err, store.ErrEmailEnUso):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "error interno")
	}
}

// exigirUsuario corta con 401 si no hay sesión.
func exigirUsuario(w http.ResponseWriter, r *http.Request) (store.Usuario, bool) {
	u, ok := GetUsuario(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no autenticado")
		return store.Usuario{}, false
	}
	return u, true
}

type authResponse struct {
	User  usuarios.User `json:"user"`
	Token string        `json:"token"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func registerHandler(auth *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		u, token, err := auth.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, store.ErrEmailEnUso) {
				writeServiceError(w, err)
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, authResponse{User: u.View(), Token: token})
	}
}

func loginHandler(auth *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		u, token, err := auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, authResponse{User: u.View(), Token: token})
	}
}

func listSolicitudesHandler(svc *SolicitudesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		items, err := svc.Listar(r.Context(), u)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createSolicitudHandler(svc *SolicitudesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		var in solicitudes.CrearInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		creada, err := svc.Crear(r.Context(), u, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, creada)
	}
}

type estatusRequest struct {
	Estatus solicitudes.Estatus `json:"estatus"`
}

func updateEstatusHandler(svc *SolicitudesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		var req estatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		actualizada, err := svc.ActualizarEstatus(r.Context(), u, chi.URLParam(r, "id"), req.Estatus)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, actualizada)
	}
}

func listSeguimientoHandler(svc *SeguimientoService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		items, err := svc.Listar(r.Context(), u, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createSeguimientoHandler(svc *SeguimientoService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		var payload seguimiento.CrearPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		creado, err := svc.Crear(r.Context(), u, chi.URLParam(r, "id"), payload)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, creado)
	}
}

func listUsersHandler(svc *UsuariosService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		items, err := svc.Listar(r.Context(), u)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func getUserHandler(svc *UsuariosService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		out, err := svc.Obtener(r.Context(), u, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type updateUserRequest struct {
	Name  *string        `json:"name"`
	Email *string        `json:"email"`
	Role  *usuarios.Role `json:"role"`
}

func updateUserHandler(svc *UsuariosService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		var req updateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
		out, err := svc.Actualizar(r.Context(), u, chi.URLParam(r, "id"), req.Name, req.Email, req.Role)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func setDisabledHandler(svc *UsuariosService, disabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		var out usuarios.UserAdmin
		var err error
		if disabled {
			out, err = svc.Deshabilitar(r.Context(), u, chi.URLParam(r, "id"))
		} else {
			out, err = svc.Habilitar(r.Context(), u, chi.URLParam(r, "id"))
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteUserHandler(svc *UsuariosService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		if err := svc.Eliminar(r.Context(), u, chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "usuario eliminado"})
	}
}

func resetPasswordHandler(svc *UsuariosService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := exigirUsuario(w, r)
		if !ok {
			return
		}
		msg, out, err := svc.ResetPassword(r.Context(), u, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": msg, "user": out})
	}
}

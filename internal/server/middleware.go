package server

import (
	"context"
	"net/http"
	"strings"

	"easy-request/internal/server/store"
)

type ctxKey string

const usuarioKey ctxKey = "usuario"

// AuthContext:
// - Si viene Bearer token válido => setea el usuario en el contexto.
// - Si no hay token o no resuelve, el request sigue igual; cada
//   handler decide si exige auth (401) o no.
func AuthContext(auth *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, ok := auth.Autenticar(r.Context(), token)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), usuarioKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUsuario(ctx context.Context) (store.Usuario, bool) {
	v := ctx.Value(usuarioKey)
	if v == nil {
		return store.Usuario{}, false
	}
	u, ok := v.(store.Usuario)
	return u, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

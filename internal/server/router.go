package server

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"easy-request/internal/domain/usuarios"
	"easy-request/internal/server/store"
	mem "easy-request/internal/server/store/memory"
	pg "easy-request/internal/server/store/postgres"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, intenta DB_DSN por env
	// y cae a in-memory.
	DB *sql.DB

	// Opcional: logger; nil => no-op.
	Log *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	var (
		usersRepo store.UsuariosRepo
		solRepo   store.SolicitudesRepo
		segRepo   store.SeguimientosRepo
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("no se pudo abrir postgres, usando memoria", zap.Error(err))
			}
		}
	}

	if db != nil {
		if err := pg.EnsureSchema(context.Background(), db); err != nil {
			log.Error("ensure schema", zap.Error(err))
		}
		usersRepo = pg.NewUsuariosRepo(db)
		solRepo = pg.NewSolicitudesRepo(db)
		segRepo = pg.NewSeguimientosRepo(db)
		log.Info("storage: postgres")
	} else {
		usersRepo = mem.NewUsuariosRepo()
		solRepo = mem.NewSolicitudesRepo()
		segRepo = mem.NewSeguimientosRepo()
		log.Info("storage: memoria")
	}

	seedAdmin(usersRepo, log)

	tokens := NewTokens()
	authSvc := NewAuthService(usersRepo, tokens)
	solSvc := NewSolicitudesService(solRepo, segRepo, usersRepo)
	segSvc := NewSeguimientoService(segRepo, solRepo, usersRepo)
	usersSvc := NewUsuariosService(usersRepo, tokens)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(AuthContext(authSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", registerHandler(authSvc))
		api.Post("/auth/login", loginHandler(authSvc))

		api.Route("/solicitudes", func(sr chi.Router) {
			sr.Get("/", listSolicitudesHandler(solSvc))
			sr.Post("/", createSolicitudHandler(solSvc))
			sr.Patch("/{id}/estatus", updateEstatusHandler(solSvc))
			sr.Get("/{id}/seguimiento", listSeguimientoHandler(segSvc))
			sr.Post("/{id}/seguimiento", createSeguimientoHandler(segSvc))
		})

		api.Route("/users", func(ur chi.Router) {
			ur.Get("/", listUsersHandler(usersSvc))
			ur.Get("/{id}", getUserHandler(usersSvc))
			ur.Patch("/{id}", updateUserHandler(usersSvc))
			ur.Patch("/{id}/disable", setDisabledHandler(usersSvc, true))
			ur.Patch("/{id}/enable", setDisabledHandler(usersSvc, false))
			ur.Patch("/{id}/reset-password", resetPasswordHandler(usersSvc))
			ur.Delete("/{id}", deleteUserHandler(usersSvc))
		})
	})

	return r
}

// seedAdmin garantiza que exista al menos una cuenta admin para poder
// entrar la primera vez. Configurable por ADMIN_EMAIL/ADMIN_PASSWORD.
func seedAdmin(users store.UsuariosRepo, log *zap.Logger) {
	ctx := context.Background()
	existentes, err := users.List(ctx)
	if err != nil || len(existentes) > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@easy-request.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	err = users.Create(ctx, store.Usuario{
		ID:           uuid.NewString(),
		Name:         "Administrador",
		Email:        email,
		Role:         usuarios.RoleAdmin,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err == nil {
		log.Info("admin inicial creado", zap.String("email", email))
	}
}

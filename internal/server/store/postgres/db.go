// Package postgres implementa los repositorios sobre PostgreSQL
// (driver pgx vía database/sql). Se activa con DB_DSN.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre el pool y verifica conectividad.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// EnsureSchema crea las tablas si no existen. Suficiente para un
// backend de desarrollo; no hay migraciones versionadas.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			role          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			disabled      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS solicitudes (
			id               TEXT PRIMARY KEY,
			correlativo      TEXT NOT NULL,
			tipo_accion      TEXT NOT NULL,
			tipo_documento   TEXT NOT NULL,
			otro_especifique TEXT NOT NULL DEFAULT '',
			documentos       JSONB NOT NULL,
			fecha_creacion   TIMESTAMPTZ NOT NULL,
			creado_por       TEXT REFERENCES usuarios(id) ON DELETE SET NULL,
			estatus          TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS seguimientos (
			id           TEXT PRIMARY KEY,
			solicitud_id TEXT NOT NULL REFERENCES solicitudes(id),
			autor_id     TEXT REFERENCES usuarios(id) ON DELETE SET NULL,
			texto        TEXT NOT NULL,
			adjuntos     JSONB NOT NULL,
			fecha        TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_solicitudes_creado_por ON solicitudes(creado_por)`,
		`CREATE INDEX IF NOT EXISTS idx_seguimientos_solicitud ON seguimientos(solicitud_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}

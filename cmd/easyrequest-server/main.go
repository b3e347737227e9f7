package main

import (
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"easy-request/internal/platform/logger"
	"easy-request/internal/server"
)

func main() {
	log := logger.NewFromEnv()
	defer func() { _ = log.Sync() }()

	addr := ":3000"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := server.NewRouter(server.Options{Log: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("servidor escuchando", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}

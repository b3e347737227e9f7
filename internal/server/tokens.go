package server

import (
	"sync"

	"github.com/google/uuid"
)

// Tokens emite y resuelve bearer tokens opacos. Viven en memoria: un
// reinicio del servidor invalida las sesiones, suficiente para un
// backend de desarrollo.
type Tokens struct {
	mu     sync.RWMutex
	porTok map[string]string // token -> user id
}

func NewTokens() *Tokens {
	return &Tokens{porTok: make(map[string]string)}
}

func (t *Tokens) Emitir(userID string) string {
	tok := uuid.NewString()
	t.mu.Lock()
	t.porTok[tok] = userID
	t.mu.Unlock()
	return tok
}

func (t *Tokens) Resolver(tok string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.porTok[tok]
	return id, ok
}

func (t *Tokens) RevocarDeUsuario(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for tok, id := range t.porTok {
		if id == userID {
			delete(t.porTok, tok)
		}
	}
}

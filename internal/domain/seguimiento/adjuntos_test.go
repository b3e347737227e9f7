package seguimiento

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLeerAdjuntoCodificaDataURL(t *testing.T) {
	adj, err := LeerAdjunto("nota.txt", strings.NewReader("hola"))
	if err != nil {
		t.Fatalf("LeerAdjunto: %v", err)
	}
	if adj.NombreArchivo != "nota.txt" {
		t.Fatalf("nombre inesperado: %q", adj.NombreArchivo)
	}
	if !strings.HasPrefix(adj.URL, "data:text/plain") {
		t.Fatalf("MIME deducido de la extensión, llegó %q", adj.URL)
	}
	if !strings.HasSuffix(adj.URL, ";base64,aG9sYQ==") {
		t.Fatalf("contenido base64 inesperado: %q", adj.URL)
	}
}

func TestLeerAdjuntoSinExtensionUsaOctetStream(t *testing.T) {
	adj, err := LeerAdjunto("binario", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("LeerAdjunto: %v", err)
	}
	if !strings.HasPrefix(adj.URL, "data:application/octet-stream;base64,") {
		t.Fatalf("esperaba octet-stream, llegó %q", adj.URL)
	}
}

func TestLeerAdjuntoRechazaDemasiadoGrande(t *testing.T) {
	grande := strings.NewReader(strings.Repeat("a", maxAdjunto+1))
	if _, err := LeerAdjunto("grande.bin", grande); !errors.Is(err, ErrAdjuntoDemasiadoGrande) {
		t.Fatalf("esperaba ErrAdjuntoDemasiadoGrande, llegó %v", err)
	}
}

func TestLeerAdjuntoArchivo(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "informe.txt")
	if err := os.WriteFile(ruta, []byte("contenido"), 0o600); err != nil {
		t.Fatalf("preparar archivo: %v", err)
	}

	adj, err := LeerAdjuntoArchivo(ruta)
	if err != nil {
		t.Fatalf("LeerAdjuntoArchivo: %v", err)
	}
	if adj.NombreArchivo != "informe.txt" {
		t.Fatalf("debería usar el nombre base, llegó %q", adj.NombreArchivo)
	}

	if _, err := LeerAdjuntoArchivo(filepath.Join(t.TempDir(), "no-existe.txt")); err == nil {
		t.Fatalf("esperaba error con archivo inexistente")
	}
}

package seguimiento

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Límite de lectura por adjunto: el contenido viaja inline en el JSON.
const maxAdjunto = 10 << 20 // 10MB

var ErrAdjuntoDemasiadoGrande = errors.New("el adjunto supera el tamaño máximo (10MB)")

// LeerAdjunto lee el contenido completo y lo codifica como data URL
// base64, con el MIME deducido de la extensión del nombre.
func LeerAdjunto(nombre string, r io.Reader) (Adjunto, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return Adjunto{}, errors.New("nombre de archivo requerido")
	}

	raw, err := io.ReadAll(io.LimitReader(r, maxAdjunto+1))
	if err != nil {
		return Adjunto{}, fmt.Errorf("leer adjunto %q: %w", nombre, err)
	}
	if len(raw) > maxAdjunto {
		return Adjunto{}, ErrAdjuntoDemasiadoGrande
	}

	tipo := mime.TypeByExtension(filepath.Ext(nombre))
	if tipo == "" {
		tipo = "application/octet-stream"
	}

	return Adjunto{
		NombreArchivo: nombre,
		URL:           "data:" + tipo + ";base64," + base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// LeerAdjuntoArchivo lee un archivo del disco como adjunto.
func LeerAdjuntoArchivo(ruta string) (Adjunto, error) {
	f, err := os.Open(ruta)
	if err != nil {
		return Adjunto{}, err
	}
	defer f.Close()
	return LeerAdjunto(filepath.Base(ruta), f)
}

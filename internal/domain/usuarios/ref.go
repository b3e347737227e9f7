package usuarios

import (
	"encoding/json"
	"strings"
)

// Ref referencia a un usuario tal como viene del backend, que según
// haga populate o no devuelve tres formas distintas:
// - null / ausente
// - el id en string
// - el objeto poblado {_id, name, email}
// En vez de comprobar tipos en runtime por todas partes, Ref absorbe
// las tres formas en el unmarshal y expone accessors explícitos.
type Ref struct {
	ID    string
	Name  string
	Email string

	expandido bool
}

// RefID construye una referencia plana (solo id).
func RefID(id string) Ref {
	return Ref{ID: strings.TrimSpace(id)}
}

// RefExpandido construye una referencia poblada.
func RefExpandido(id, name, email string) Ref {
	return Ref{
		ID:        strings.TrimSpace(id),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		expandido: true,
	}
}

// Presente indica si hay referencia (no null/ausente).
func (r Ref) Presente() bool { return r.ID != "" }

// Expandida indica si el backend hizo populate (hay name/email).
func (r Ref) Expandida() bool { return r.expandido }

// Etiqueta devuelve el texto a mostrar: "Nombre (email)", nombre,
// email, o los fallbacks de la UI original.
func (r Ref) Etiqueta() string {
	if !r.expandido {
		return "Sin asignar"
	}
	nombre := strings.TrimSpace(r.Name)
	email := strings.TrimSpace(r.Email)
	if nombre != "" {
		if email != "" {
			return nombre + " (" + email + ")"
		}
		return nombre
	}
	if email != "" {
		return email
	}
	return "Sin nombre"
}

type refJSON struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*r = Ref{}
		return nil
	}

	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = RefID(id)
		return nil
	}

	var obj refJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = RefExpandido(obj.ID, obj.Name, obj.Email)
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.Presente() {
		return []byte("null"), nil
	}
	if !r.expandido {
		return json.Marshal(r.ID)
	}
	return json.Marshal(refJSON{ID: r.ID, Name: r.Name, Email: r.Email})
}

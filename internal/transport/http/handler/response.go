package handler

import "github.com/elbuensabor/verification-service/internal/domain"

// usuarioResponse is the wire shape of an account. The stored model and
// the JSON field names match on purpose: any legacy renaming lives here,
// at the boundary, not in the domain.
type usuarioResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Nombre         string `json:"nombre"`
	Apellido       string `json:"apellido"`
	CodigoArea     string `json:"codigo_area,omitempty"`
	NumeroTelefono string `json:"numero_telefono,omitempty"`
	Rol            string `json:"rol"`
	Estado         string `json:"estado"`
}

func toUsuario(a *domain.Account) usuarioResponse {
	return usuarioResponse{
		ID:             a.ID,
		Email:          a.Email,
		Nombre:         a.Nombre,
		Apellido:       a.Apellido,
		CodigoArea:     a.CodigoArea,
		NumeroTelefono: a.NumeroTelefono,
		Rol:            a.Rol,
		Estado:         a.Estado,
	}
}

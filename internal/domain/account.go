package domain

import "time"

const (
	RolCustomer  = "customer"
	EstadoActive = "active"
)

type Account struct {
	ID             string
	Email          string
	Nombre         string
	Apellido       string
	PasswordHash   string
	CodigoArea     string
	NumeroTelefono string
	Rol            string
	Estado         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

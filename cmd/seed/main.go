// seed inserts demo accounts into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/elbuensabor/verification-service/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

type seedAccount struct {
	email    string
	nombre   string
	apellido string
	password string
	rol      string
}

var accounts = []seedAccount{
	{"cliente@test.local", "Carla", "Gómez", "cliente1", "customer"},
	{"cliente2@test.local", "Martín", "Pereyra", "cliente2", "customer"},
	{"admin@test.local", "Admin", "Local", "admin123", "admin"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	inserted, skipped := 0, 0
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password for %s: %v", a.email, err)
		}

		tag, err := pool.Exec(ctx, `
			INSERT INTO accounts (email, nombre, apellido, password_hash, rol, estado)
			VALUES ($1, $2, $3, $4, $5, 'active')
			ON CONFLICT (email) DO NOTHING`,
			a.email, a.nombre, a.apellido, string(hash), a.rol,
		)
		if err != nil {
			log.Fatalf("insert %s: %v", a.email, err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	fmt.Println("Seed complete.")
	fmt.Printf("  Accounts created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Log in with a seeded account:")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/auth/login \\")
	fmt.Println("      -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"email\":\"cliente@test.local\",\"password\":\"cliente1\"}'")
	fmt.Println()
	fmt.Println("  Or walk the recovery flow (codes are printed to the server log in ENV=local):")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/auth/request-password-recovery \\")
	fmt.Println("      -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"email\":\"cliente@test.local\"}'")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:8080/auth/verify-recovery-code \\")
	fmt.Println("      -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"email\":\"cliente@test.local\",\"code\":\"CODE_FROM_LOG\"}'")
}

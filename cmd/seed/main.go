package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Maniblazestarboy/api-linkado/config"
	"github.com/Maniblazestarboy/api-linkado/internal/application"
	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	pginfra "github.com/Maniblazestarboy/api-linkado/internal/infrastructure/postgres"
	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
)

// seed creates the first admin account. An existing account with the same
// email gets its password reset and is promoted to admin, which also
// invalidates every token issued for it.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	name := flag.String("name", os.Getenv("ADMIN_NAME"), "admin display name")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (min 8 chars)")
	flag.Parse()
	if *name == "" {
		*name = "Admin"
	}
	if *email == "" || *password == "" {
		log.Fatal("email and password are required (flags or ADMIN_EMAIL / ADMIN_PASSWORD)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, time.Hour)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	hasher := helpers.NewBcryptHasher(cfg.PasswordCost)
	auth := application.NewAuthService(users, hasher, helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiresIn), logger)

	u, err := auth.CreateUser(ctx, application.NewUser{Name: *name, Email: *email, Password: *password, Role: entity.RoleAdmin})
	switch {
	case err == nil:
		fmt.Printf("seeded admin: id=%s email=%s\n", u.ID, u.Email)
	case errors.Is(err, application.ErrEmailTaken):
		existing, err := users.FindByEmail(ctx, *email, true)
		if err != nil {
			log.Fatalf("failed to load existing user: %v", err)
		}
		hash, err := hasher.Hash(*password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		existing.Name = *name
		existing.Role = entity.RoleAdmin
		existing.SetPassword(hash, time.Now())
		if err := users.Save(ctx, existing); err != nil {
			log.Fatalf("failed to update admin: %v", err)
		}
		fmt.Printf("updated admin: id=%s email=%s\n", existing.ID, existing.Email)
	default:
		log.Fatalf("failed to seed admin: %v", err)
	}
}

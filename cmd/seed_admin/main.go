// seed_admin crea el primer usuario administrador si la base no tiene usuarios.
//
// Uso: go run ./cmd/seed_admin -username admin -email admin@example.com -password secreto123
// La contraseña también puede pasarse con SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/carpet-shop-api/internal/application/auth"
	"github.com/jhoicas/carpet-shop-api/internal/application/dto"
	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/carpet-shop-api/pkg/config"
	"github.com/jhoicas/carpet-shop-api/pkg/logger"
)

func main() {
	username := flag.String("username", "admin", "nombre de usuario")
	email := flag.String("email", "", "correo del administrador")
	fullName := flag.String("full-name", "", "nombre completo")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña (mínimo 8 caracteres)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Uso: seed_admin -email <correo> -password <contraseña> [-username admin]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	user, err := authUC.InitAdmin(ctx, dto.RegisterRequest{
		Username: *username,
		Email:    *email,
		FullName: *fullName,
		Password: *password,
	})
	switch {
	case errors.Is(err, domain.ErrConflict):
		log.Warn().Msg("ya existen usuarios; no se creó el administrador")
		return
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("administrador creado")
}

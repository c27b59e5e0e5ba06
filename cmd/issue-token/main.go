package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/auth"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/Domenick1991/eventbooking/migrations"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	username := flag.String("username", "", "display name of the user")
	email := flag.String("email", "", "unique email address")
	phone := flag.String("phone", "", "optional phone number")
	flag.Parse()

	if *username == "" || *email == "" {
		log.Fatal("-username and -email are required")
	}

	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	user := &domain.User{
		ID:          uuid.NewString(),
		Username:    *username,
		Email:       *email,
		PhoneNumber: *phone,
	}
	if err := repository.NewUserRepository(pool).Create(ctx, user); err != nil {
		log.Fatalf("create user: %v", err)
	}

	token, err := auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), nil).Issue(user.ID)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Printf("user_id=%s\n", user.ID)
	fmt.Printf("token=%s\n", token)
}

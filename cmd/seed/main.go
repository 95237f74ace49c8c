// Seeds the first staff account. The staff flag is only mutable through the
// staff endpoints, so the initial operator has to come from outside the API.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"voteapp/internal/config"
	"voteapp/internal/db"
	"voteapp/internal/model"
	"voteapp/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	repo := repository.NewUserRepository(gormDB)

	if existing, err := repo.FindByEmail(ctx, email); err == nil {
		if existing.IsStaff {
			log.Printf("Staff account %s already exists, nothing to do", email)
			return
		}
		if err := repo.UpdateFields(ctx, existing.ID, map[string]interface{}{"is_staff": true}); err != nil {
			log.Fatalf("Failed to promote existing account: %v", err)
		}
		log.Printf("Promoted existing account %s to staff", email)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to look up account: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		IsStaff:      true,
		IsActive:     true,
	}
	if err := repo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create staff account: %v", err)
	}
	log.Printf("Created staff account %s (%s)", email, user.ID)
}

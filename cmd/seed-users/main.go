package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/uniexam/uniexam-backend/internal/config"
	"github.com/uniexam/uniexam-backend/internal/database"
	"github.com/uniexam/uniexam-backend/internal/logger"
	"github.com/uniexam/uniexam-backend/internal/model"
	"github.com/uniexam/uniexam-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Seeds student accounts for local development. Usernames run student1..N
// and every account gets the same password.
func main() {
	var count int
	var password string
	flag.IntVar(&count, "count", 50, "Number of student accounts to create")
	flag.StringVar(&password, "password", "changeme", "Password for every seeded account")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	fmt.Printf("=== Seeding %d Students ===\n", count)

	successCount := 0
	for i := 1; i <= count; i++ {
		student := &model.User{
			Username:     fmt.Sprintf("student%d", i),
			Name:         fmt.Sprintf("Student %d", i),
			PasswordHash: string(hash),
			Role:         model.UserRoleStudent,
		}

		if err := userRepo.Create(ctx, student); err != nil {
			fmt.Printf("Error creating %s: %v\n", student.Username, err)
			continue
		}
		successCount++
		if i%10 == 0 {
			fmt.Printf("Created %d students...\n", i)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, count)
}

package main

import (
	"context"
	"flag"
	"log"
	"time"

	"store_rating/internal/config"
	"store_rating/internal/logger"
	"store_rating/internal/repository"
	"store_rating/internal/seed"
	"store_rating/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	reset := flag.Bool("reset", false, "delete all users, stores and ratings before seeding")
	randSeed := flag.Int64("rand-seed", 1, "seed for the generated rating mix")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline for the run")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbPool, err := config.ConnectDB(ctx, cfg.DB, appLog)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := config.AutoMigrate(ctx, dbPool, appLog); err != nil {
		appLog.Fatal("failed to auto-migrate database", "error", err)
	}
	if *reset {
		if err := config.ResetData(ctx, dbPool, appLog); err != nil {
			appLog.Fatal("failed to reset data", "error", err)
		}
	}

	userRepo := repository.NewUserRepository(dbPool)
	storeRepo := repository.NewStoreRepository(dbPool)
	ratingRepo := repository.NewRatingRepository(dbPool)

	adminService := service.NewAdminService(userRepo, storeRepo, ratingRepo)
	ratingService := service.NewRatingService(ratingRepo, userRepo, storeRepo, nil, appLog)

	sum, err := seed.NewSeeder(adminService, ratingService, *randSeed, appLog).Run(ctx)
	if err != nil {
		appLog.Fatal("seeding failed, rerun with -reset on a database that already holds data", "error", err)
	}
	appLog.Info("seed complete",
		"admins", sum.Admins,
		"users", sum.Users,
		"stores", sum.Stores,
		"store_owners", sum.Stores,
		"ratings", sum.Ratings,
	)
}

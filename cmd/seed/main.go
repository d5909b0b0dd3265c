package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/yourusername/cars-practice-api/internal/config"
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	"github.com/yourusername/cars-practice-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/cars-practice-api/internal/repository/redis"
	"github.com/yourusername/cars-practice-api/internal/seed"
	"github.com/yourusername/cars-practice-api/internal/service"
	"github.com/yourusername/cars-practice-api/pkg/database"
)

func main() {
	file := flag.String("file", "seed/passages.yaml", "path to passages YAML")
	migrate := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	passages, err := seed.LoadFile(*file)
	if err != nil {
		log.Fatalf("Failed to load seed file: %v", err)
	}
	log.Printf("[Seed] Прочитано пассажей: %d из %s", len(passages), *file)

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), true)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if *migrate {
		if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	ctx := context.Background()

	var cache repository.CacheRepository
	if cfg.Redis.Enabled() {
		client, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Printf("[Seed] Redis недоступен, кеш не будет сброшен: %v", err)
		} else {
			defer client.Close()
			if repo, err := redisRepo.NewCacheRepo(client); err == nil {
				cache = repo
			}
		}
	}

	report, err := seed.NewSeeder(postgres.NewPassageRepo(db), cache).Run(ctx, passages, service.PassageListCacheKey())
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	log.Printf("[Seed] Готово: добавлено %d, пропущено %d", len(report.Inserted), len(report.Skipped))
}

package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/yourusername/cars-practice-api/internal/config"
)

// Утилита ручного управления миграциями: up, down (на один шаг), force <version>, version
func main() {
	force := flag.Int("force", -1, "force migration version to clean a dirty state")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" && *force < 0 {
		cmd = "up"
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal(err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+cfg.Database.MigrationsPath,
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatal(err)
	}

	if *force >= 0 {
		fmt.Printf("Forcing migration version to %d to clean dirty state...\n", *force)
		if err := m.Force(*force); err != nil {
			log.Fatalf("Failed to force version: %v", err)
		}
		fmt.Println("Success! Dirty state cleaned.")
		return
	}

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatalf("Failed to read version: %v", verr)
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return
	default:
		log.Fatalf("unknown command %q (expected up, down or version)", cmd)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No change.")
		return
	}
	if err != nil {
		log.Fatalf("Migration %s failed: %v", cmd, err)
	}
	fmt.Printf("Migration %s applied.\n", cmd)
}

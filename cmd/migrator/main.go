package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/rmachado/sportsbook-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	var dsn, migrationsPath string
	flag.StringVar(&dsn, "dsn", cfg.PostgresDSN, "postgres dsn")
	flag.StringVar(&migrationsPath, "migrations-path", "./migrations", "path to migrations")
	var down bool
	flag.BoolVar(&down, "down", false, "roll back all migrations")
	flag.Parse()

	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		panic(err)
	}

	run := m.Up
	if down {
		run = m.Down
	}
	if err := run(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		panic(err)
	}
	fmt.Println("migrations applied successfully")
}

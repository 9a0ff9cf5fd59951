package main

import (
	"context"
	"flag"
	stdLog "log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Astemirdum/school-library/library/config"
	"github.com/Astemirdum/school-library/library/migrations"
	"github.com/Astemirdum/school-library/pkg/postgres"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down or status")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg, err := config.Load()
	if err != nil {
		stdLog.Fatal("config ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database.DSN(), 1)
	if err != nil {
		stdLog.Fatal("db open ", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db, migrations.MigrationFiles, *command); err != nil {
		stdLog.Fatal("migrate ", err)
	}
}

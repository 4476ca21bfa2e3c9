package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/livepoll/internal/config"
)

func main() {
	down := flag.Bool("down", false, "Roll back every migration instead of applying them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := postgres.Open(cfg.Postgres.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if *down {
		if err := postgres.MigrateDown(db); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
		fmt.Println("Migrations rolled back successfully.")
		return
	}

	version, err := postgres.MigrateUp(db)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	fmt.Printf("Migrations applied successfully (version %d).\n", version)
}

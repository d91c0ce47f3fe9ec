package main

import (
	"log"

	"shopmobile/internal/model"
	"shopmobile/internal/seed"
	"shopmobile/pkg/config"
	"shopmobile/pkg/database"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	db, err := database.InitMySQL(cfg.Mysql)
	if err != nil {
		log.Fatalf("init mysql: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := seed.Run(db); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seeding completed")
}

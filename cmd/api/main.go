package main

import (
	"log"

	"github.com/gigflow/gigflow-backend/internal/config"
	"github.com/gigflow/gigflow-backend/internal/db"
	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.Gig{},
		&model.Bid{},
		&model.Conversation{},
		&model.Message{},
	); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	srv := server.New(conn, cfg)

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

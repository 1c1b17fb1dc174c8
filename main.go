package main

import (
	"ubicomp-backend/internal/logger"
	"ubicomp-backend/internal/logic"
	"ubicomp-backend/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; deployments set the environment directly
	_ = godotenv.Load()

	cfg := LoadConfig()
	cfg.Print()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	store.Init(cfg.DataRoot)

	router := logic.SetupRouter(log)
	log.Info("listening", "addr", cfg.ListenAddr, "data_root", cfg.DataRoot)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal("server exited", "error", err)
	}
}

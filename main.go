package main

import (
	"log/slog"
	"os"

	"github.com/guichet-bot/guichet/handler"
	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
	requiredEnv := []string{
		"DISCORD_BOT_TOKEN",
	}
	for _, env := range requiredEnv {
		if os.Getenv(env) == "" {
			slog.Error("required environment variable not set", slog.String("env", env))
			os.Exit(1)
		}
	}
}

func main() {
	h, err := handler.NewHandler()
	if err != nil {
		slog.Error("NewHandler failed", slog.Any("err", err))
		os.Exit(1)
	}

	slog.Info("ticket bot starting")
	if err := h.Handle(); err != nil {
		slog.Error("Server failed", slog.Any("err", err))
		os.Exit(1)
	}
}

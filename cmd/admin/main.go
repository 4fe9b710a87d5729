// Command admin performs operator tasks against the chat store: creating
// users, building indexes and checking the environment.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/PaulBabatuyi/chatStore-gRPC/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl, err := logger.New(os.Getenv("APP_MODE"))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	app := newApp(zl, os.Stdout, os.LookupEnv)
	if err := app.Run(ctx, os.Args); err != nil {
		zl.Fatal("admin command failed", zap.Error(err))
	}
}

// Package main provides the entry point for the voice bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/solstice-bots/vocalis/internal/app"
	"github.com/solstice-bots/vocalis/internal/audio"
	"github.com/solstice-bots/vocalis/internal/bot"
	"github.com/solstice-bots/vocalis/internal/chat"
	"github.com/solstice-bots/vocalis/internal/commands"
	"github.com/solstice-bots/vocalis/internal/config"
	"github.com/solstice-bots/vocalis/internal/discord"
	"github.com/solstice-bots/vocalis/internal/health"
	"github.com/solstice-bots/vocalis/internal/infrastructure"
	"github.com/solstice-bots/vocalis/internal/voice"
	pkginfra "github.com/solstice-bots/vocalis/pkg/infrastructure"
)

func main() {
	configPath := "config.yaml"

	application := app.New(
		// Core modules
		config.Module,
		infrastructure.LoggerModule,

		// External service modules
		discord.Module,
		health.Module,

		// Application modules
		voice.Module,
		audio.Module,
		chat.Module,
		commands.Module,
		bot.Module,

		// Supply the config path
		fx.Supply(configPath),

		// Configure Fx to use our Zap logger for its own internal logging
		fx.WithLogger(pkginfra.NewFxLoggerAdapter),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go application.Run()

	sig := <-sigCh
	fmt.Printf("Received signal: %s, initiating shutdown.\n", sig)

	// Give the application 30 seconds to shut down gracefully.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := application.Stop(shutdownCtx)
	cancel()

	if err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Application has shut down gracefully.")
}

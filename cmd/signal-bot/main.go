package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/futures-signal-bot/internal/bot"
	"github.com/ducminhle1904/futures-signal-bot/internal/config"
	"github.com/ducminhle1904/futures-signal-bot/internal/logger"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file (e.g., signal_bot.json)")
		factorsFile = flag.String("factors", "factors.json", "Factor scores file, re-read every cycle")
		envFile     = flag.String("env", ".env", "Environment file path")
		demo        = flag.Bool("demo", true, "Use demo trading environment - paper trading (default: true)")
	)
	flag.Parse()

	if *configFile == "" {
		log.Fatal("Please specify a config file with -config flag")
	}

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: Could not load .env file (%v), checking environment variables...", err)
	}

	fmt.Println("🚀 Signal Bot Starting...")

	botConfig, err := config.LoadBotConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *demo {
		botConfig.Exchange.Bybit.Demo = true
		botConfig.Exchange.Bybit.Testnet = false
	}

	appLog := logger.New(logger.Config{
		Level:  botConfig.Logging.Level,
		Pretty: botConfig.Logging.Pretty,
	})
	logger.SetGlobalLogger(appLog)

	factors := bot.NewFileFactorSource(*factorsFile)

	// Signal-only operation: opportunities are logged and pushed to
	// Telegram, never sent to the exchange.
	signalBot, err := bot.NewSignalBot(botConfig, factors, nil, appLog)
	if err != nil {
		log.Fatalf("Failed to create signal bot: %v", err)
	}

	if err := signalBot.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\n🛑 Shutdown signal received...")

	signalBot.Stop()
	fmt.Println("✅ Bot stopped successfully")
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}

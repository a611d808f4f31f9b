package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/futures-signal-bot/internal/bot"
	"github.com/ducminhle1904/futures-signal-bot/internal/config"
	"github.com/ducminhle1904/futures-signal-bot/internal/decision"
	"github.com/ducminhle1904/futures-signal-bot/internal/exchange/bybit"
	"github.com/ducminhle1904/futures-signal-bot/internal/logger"
	"github.com/ducminhle1904/futures-signal-bot/internal/risk"
	"github.com/ducminhle1904/futures-signal-bot/internal/scoring"
	"github.com/ducminhle1904/futures-signal-bot/internal/sizing"
	"github.com/ducminhle1904/futures-signal-bot/pkg/reporting"
)

// scan runs one decision cycle and prints the ranked opportunities,
// without starting the long-running bot.
func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file (e.g., signal_bot.json)")
		factorsFile = flag.String("factors", "factors.json", "Factor scores file")
		envFile     = flag.String("env", ".env", "Environment file path")
		xlsxPath    = flag.String("xlsx", "", "Write an Excel report to this path")
	)
	flag.Parse()

	if *configFile == "" {
		log.Fatal("Please specify a config file with -config flag")
	}

	if _, err := os.Stat(*envFile); err == nil {
		if err := godotenv.Load(*envFile); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}
	}

	botConfig, err := config.LoadBotConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.New(logger.Config{
		Level:  botConfig.Logging.Level,
		Pretty: botConfig.Logging.Pretty,
	})

	client := bybit.NewClient(bybit.Config{
		APIKey:            botConfig.Exchange.Bybit.APIKey,
		APISecret:         botConfig.Exchange.Bybit.APISecret,
		Testnet:           botConfig.Exchange.Bybit.Testnet,
		Demo:              botConfig.Exchange.Bybit.Demo,
		Category:          botConfig.Exchange.Bybit.Category,
		RequestsPerSecond: botConfig.Exchange.Bybit.RequestsPerSecond,
	}, appLog)

	weights := botConfig.Scoring.Weights
	if len(weights) == 0 {
		weights = scoring.DefaultWeights()
	}
	decisionCfg := botConfig.Decision
	if botConfig.Scoring.Thresholds != nil {
		decisionCfg.Thresholds = *botConfig.Scoring.Thresholds
	}

	scorer := scoring.NewEngine(weights, appLog)
	sizer := sizing.NewSizer(client, appLog)
	engine := decision.NewEngine(scorer, sizer, decisionCfg, appLog)
	riskMgr := risk.NewManager(botConfig.Risk.Limits, botConfig.Risk.InitialBalance, nil, appLog)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	factors := bot.NewFileFactorSource(*factorsFile)
	inputs, err := factors.Factors(ctx, botConfig.Symbols)
	if err != nil {
		log.Fatalf("Failed to load factor scores: %v", err)
	}

	availableMargin, err := client.GetAvailableMargin(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch available margin: %v", err)
	}

	reporting.PrintScanHeader(botConfig.Symbols)
	fmt.Printf("💰 Available margin: $%.2f\n\n", availableMargin)

	opportunities := engine.GetOptimalSymbols(ctx, botConfig.Symbols, inputs, availableMargin)

	reporting.PrintOpportunities(opportunities)
	reporting.PrintRiskStatus(riskMgr.GetMetrics(), riskMgr.GetPositions(), riskMgr.GetAlerts())

	if *xlsxPath != "" {
		report := reporting.ScanReport{
			GeneratedAt:   time.Now(),
			Symbols:       botConfig.Symbols,
			Opportunities: opportunities,
			Metrics:       riskMgr.GetMetrics(),
			Positions:     riskMgr.GetPositions(),
			Alerts:        riskMgr.GetAlerts(),
		}
		if err := reporting.WriteScanReportXLSX(report, *xlsxPath); err != nil {
			log.Fatalf("Failed to write Excel report: %v", err)
		}
		fmt.Printf("📄 Excel report written to %s\n", *xlsxPath)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/frankywashere/boomtrade/internal/config"
	"github.com/frankywashere/boomtrade/internal/gateway"
	"github.com/frankywashere/boomtrade/internal/risk"
)

var (
	// Global instances
	cfg         *config.Config
	session     *gateway.Session
	riskManager *risk.Manager
	logger      *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boomtrade",
	Short: "Terminal trading client for the BoomTrade gateway",
	Long: `boomtrade is a terminal trading client for equities and options.
It talks to a brokerage gateway over HTTP: either the hosted cloud
gateway (authenticate with IBKR credentials) or a local socket bridge
in front of a running terminal (paper port 7497, live port 7496).`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogger)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default is env/BOOMTRADE_* only)")
	rootCmd.PersistentFlags().String("variant", "", "gateway variant: cloud or local (overrides config)")
}

// initLogger configures zap: default INFO, DEBUG if DEBUG env is truthy
func initLogger() {
	verbose := false
	if v := os.Getenv("DEBUG"); v == "true" || v == "1" || v == "yes" {
		verbose = true
	}

	zcfg := zap.NewProductionConfig()
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var err error
	logger, err = zcfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
}

// initializeApp sets up all dependencies
func initializeApp(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")

	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if variant, _ := cmd.Flags().GetString("variant"); variant != "" {
		cfg.Variant = variant
	}

	profile, err := gateway.ProfileByName(cfg.Variant)
	if err != nil {
		return err
	}

	session = gateway.NewSession(cfg, profile, logger)
	riskManager = risk.NewManager(cfg)

	// Every state transition is visible in the log stream
	session.Subscribe(func(change gateway.StateChange) {
		logger.Debug("gateway state",
			zap.String("from", string(change.From)),
			zap.String("to", string(change.To)))
	})

	mode := "PAPER"
	if cfg.Variant == "local" && !cfg.IsPaperTrading() {
		mode = "LIVE"
	}
	fmt.Printf("🚀 BoomTrade - %s gateway, %s mode\n", cfg.Variant, mode)

	return nil
}

// checkLiveMode forces an explicit confirmation before live-money orders
func checkLiveMode() error {
	if cfg.Variant == "local" && !cfg.IsPaperTrading() {
		fmt.Println("⚠️  WARNING: You are in LIVE trading mode!")
		fmt.Print("Type 'confirm-live' to proceed: ")

		var confirm string
		fmt.Scanln(&confirm)

		if confirm != "confirm-live" {
			return fmt.Errorf("live trading not confirmed")
		}
	}
	return nil
}

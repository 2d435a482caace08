package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frankywashere/boomtrade/internal/gateway"
	"github.com/frankywashere/boomtrade/internal/models"
)

func init() {
	loginCmd.Flags().String("account", "", "IBKR account ID (optional)")

	connectCmd.Flags().String("host", "", "terminal host (default from config)")
	connectCmd.Flags().Int("port", 0, "terminal port: 7497 paper, 7496 live (default from config)")
	connectCmd.Flags().Int("client-id", 0, "API client ID (default from config)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login [username] [password]",
	Short: "Start a cloud gateway session",
	Long: `Starts the hosted IBKR gateway with your credentials. Bootstrap plus
two-factor approval can take a minute or two; keep your phone handy.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, _ := cmd.Flags().GetString("account")

		creds := models.Credentials{
			Username: args[0],
			Password: args[1],
			Account:  account,
		}

		fmt.Println("🔐 Starting gateway, this can take up to two minutes...")
		if err := session.Authenticate(context.Background(), creds); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		fmt.Println("✅ Connected to IBKR")
		if account, ok := session.CachedAccount(); ok {
			fmt.Printf("Account %s (%s, %s)\n", account.ID, account.AccountType, account.Currency)
		}
		return nil
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to a local terminal bridge",
	Long:  `Connects the local socket bridge to a running terminal (TWS or gateway).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn := localTarget(cmd)

		fmt.Printf("🔌 Connecting to %s:%d...\n", conn.Host, conn.Port)
		if err := session.Connect(context.Background(), conn); err != nil {
			return fmt.Errorf("connect failed: %w", err)
		}

		fmt.Println("✅ Connected")
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "End the gateway session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Disconnect(context.Background()); err != nil {
			return err
		}
		fmt.Println("👋 Disconnected")
		return nil
	},
}

// localTarget assembles the socket target from flags with config fallbacks.
func localTarget(cmd *cobra.Command) models.ConnectionConfig {
	conn := models.ConnectionConfig{
		Host:     cfg.TWSHost,
		Port:     cfg.TWSPort,
		ClientID: cfg.ClientID,
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		conn.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		conn.Port = port
	}
	if clientID, _ := cmd.Flags().GetInt("client-id"); clientID != 0 {
		conn.ClientID = clientID
	}
	return conn
}

// ensureReady brings the session to Ready for one-shot domain commands,
// using configured credentials (cloud) or the configured socket target
// (local).
func ensureReady(ctx context.Context) error {
	if session.State() == gateway.StateReady {
		return nil
	}

	if session.Profile().Name == "local" {
		return session.Connect(ctx, models.ConnectionConfig{
			Host:     cfg.TWSHost,
			Port:     cfg.TWSPort,
			ClientID: cfg.ClientID,
		})
	}

	if cfg.Username == "" || cfg.Password == "" {
		return fmt.Errorf("%w: set BOOMTRADE_USERNAME and BOOMTRADE_PASSWORD or run login first", gateway.ErrNotReady)
	}
	fmt.Println("🔐 Starting gateway, this can take up to two minutes...")
	return session.Authenticate(ctx, models.Credentials{
		Username: cfg.Username,
		Password: cfg.Password,
		Account:  cfg.Account,
	})
}

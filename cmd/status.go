package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frankywashere/boomtrade/internal/gateway"
	"github.com/frankywashere/boomtrade/pkg/formatters"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := session.State()

		color := formatters.ColorYellow
		switch state {
		case gateway.StateReady:
			color = formatters.ColorGreen
		case gateway.StateFailed, gateway.StateDisconnected:
			color = formatters.ColorRed
		}

		fmt.Printf("Gateway: %s (%s)\n", cfg.Variant, cfg.BaseURL())
		fmt.Printf("State:   %s\n", color.Sprint(string(state)))
		if reason := session.FailureReason(); reason != "" {
			fmt.Printf("Reason:  %s\n", reason)
		}
		if account, ok := session.CachedAccount(); ok {
			fmt.Printf("Account: %s (%s, %s)\n", account.ID, account.AccountType, account.Currency)
		}
		return nil
	},
}

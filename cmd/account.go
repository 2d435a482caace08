package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frankywashere/boomtrade/pkg/formatters"
)

func init() {
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(acctCmd) // Alias
}

var acctCmd = &cobra.Command{
	Use:   "acct",
	Short: "Account summary (alias)",
	RunE:  runAccount,
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Display account information",
	Long:  `Shows account ID, account type, and base currency.`,
	RunE:  runAccount,
}

func runAccount(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := ensureReady(ctx); err != nil {
		return err
	}

	account, err := session.Account(ctx)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	fmt.Println(formatters.FormatAccount(account))
	return nil
}

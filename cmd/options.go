package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frankywashere/boomtrade/pkg/formatters"
)

func init() {
	optionsCmd.AddCommand(optionsSearchCmd)
	optionsCmd.AddCommand(optionsChainCmd)

	rootCmd.AddCommand(optionsCmd)
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Browse option chains",
	Long:  `Parent command for option chain operations (search, chain).`,
}

var optionsSearchCmd = &cobra.Command{
	Use:   "search [symbol]",
	Short: "List available expiries for an underlying",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := strings.ToUpper(args[0])
		ctx := context.Background()

		if err := ensureReady(ctx); err != nil {
			return err
		}

		chains, err := session.SearchOptionChains(ctx, symbol)
		if err != nil {
			return fmt.Errorf("failed to search option chains: %w", err)
		}

		if len(chains) == 0 {
			fmt.Printf("No option chains found for %s\n", symbol)
			return nil
		}

		fmt.Printf("%s expiries:\n", symbol)
		for _, chain := range chains {
			fmt.Printf("  %s  (%d calls, %d puts)\n", chain.Expiry, len(chain.Calls), len(chain.Puts))
		}
		return nil
	},
}

var optionsChainCmd = &cobra.Command{
	Use:   "chain [symbol] [expiry]",
	Short: "Display one option chain",
	Long:  `Shows the call and put contracts for an underlying and YYYYMMDD expiry.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := strings.ToUpper(args[0])
		expiry := args[1]
		ctx := context.Background()

		if err := ensureReady(ctx); err != nil {
			return err
		}

		chain, err := session.OptionChain(ctx, symbol, expiry)
		if err != nil {
			return fmt.Errorf("failed to get option chain: %w", err)
		}

		fmt.Println(formatters.FormatOptionChainTable(chain))
		return nil
	},
}

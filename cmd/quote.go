package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/frankywashere/boomtrade/pkg/formatters"
)

func init() {
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(qCmd) // Alias
}

var qCmd = &cobra.Command{
	Use:   "q [symbol]",
	Short: "Quick quote (alias for quote)",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

var quoteCmd = &cobra.Command{
	Use:   "quote [symbol]",
	Short: "Get a market snapshot",
	Long:  `Fetches last/bid/ask, volume, and daily OHLC for a symbol.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

func runQuote(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])
	ctx := context.Background()

	if err := ensureReady(ctx); err != nil {
		return err
	}

	start := time.Now()
	quote, err := session.Quote(ctx, symbol)
	if err != nil {
		return fmt.Errorf("failed to get quote: %w", err)
	}

	fmt.Println(formatters.FormatQuote(quote))
	fmt.Printf("\n⏱  Fetched • %dms\n", time.Since(start).Milliseconds())

	return nil
}

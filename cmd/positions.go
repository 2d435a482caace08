package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frankywashere/boomtrade/pkg/formatters"
)

func init() {
	rootCmd.AddCommand(positionsCmd)
	rootCmd.AddCommand(posCmd) // Alias
}

var posCmd = &cobra.Command{
	Use:   "pos",
	Short: "Show positions (alias)",
	RunE:  runPositions,
}

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Display all open positions",
	Long:  `Shows current positions with unrealized/realized P&L and market value.`,
	RunE:  runPositions,
}

func runPositions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := ensureReady(ctx); err != nil {
		return err
	}

	positions, err := session.Positions(ctx)
	if err != nil {
		return fmt.Errorf("failed to get positions: %w", err)
	}

	if len(positions) == 0 {
		fmt.Println("No open positions")
		return nil
	}

	fmt.Println(formatters.FormatPositionsTable(positions))
	return nil
}

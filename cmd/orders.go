package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frankywashere/boomtrade/pkg/formatters"
)

func init() {
	rootCmd.AddCommand(ordersCmd)
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Display open orders",
	Long:  `Shows open orders. Only the local gateway variant exposes this listing.`,
	RunE:  runOrders,
}

func runOrders(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := ensureReady(ctx); err != nil {
		return err
	}

	orders, err := session.OpenOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to get orders: %w", err)
	}

	if len(orders) == 0 {
		fmt.Println("No open orders")
		return nil
	}

	fmt.Println(formatters.FormatOpenOrdersTable(orders))
	return nil
}

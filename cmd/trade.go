package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/frankywashere/boomtrade/internal/models"
	"github.com/frankywashere/boomtrade/internal/order"
	"github.com/frankywashere/boomtrade/pkg/formatters"
)

func init() {
	// Stock order flags
	for _, cmd := range []*cobra.Command{buyCmd, sellCmd} {
		cmd.Flags().String("type", "MKT", "Order type: MKT, LMT, STP, STP_LMT, TRAIL, MIT, LIT")
		cmd.Flags().String("limit", "", "Limit price (required for LMT/STP_LMT/LIT orders)")
		cmd.Flags().String("stop", "", "Stop price (required for STP/STP_LMT/TRAIL orders)")
		cmd.Flags().String("tif", "DAY", "Time in force: DAY, GTC, IOC, FOK")
		cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	}

	// Option order flags
	for _, cmd := range []*cobra.Command{optionBuyCmd, optionSellCmd} {
		cmd.Flags().String("expiry", "", "Contract expiry, YYYYMMDD (required)")
		cmd.Flags().String("strike", "", "Strike price (required)")
		cmd.Flags().Bool("call", false, "Trade the call contract")
		cmd.Flags().Bool("put", false, "Trade the put contract")
		cmd.Flags().String("type", "MKT", "Order type: MKT or LMT")
		cmd.Flags().String("limit", "", "Limit price (required for LMT orders)")
		cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
		_ = cmd.MarkFlagRequired("expiry")
		_ = cmd.MarkFlagRequired("strike")
	}

	optionCmd.AddCommand(optionBuyCmd)
	optionCmd.AddCommand(optionSellCmd)

	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)
	rootCmd.AddCommand(optionCmd)
}

var buyCmd = &cobra.Command{
	Use:   "buy [symbol] [quantity]",
	Short: "Buy shares",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeStockTrade(cmd, args, true)
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell [symbol] [quantity]",
	Short: "Sell shares",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeStockTrade(cmd, args, false)
	},
}

var optionCmd = &cobra.Command{
	Use:   "option",
	Short: "Trade option contracts",
	Long:  `Parent command for option orders (buy, sell).`,
}

var optionBuyCmd = &cobra.Command{
	Use:   "buy [symbol] [quantity]",
	Short: "Buy option contracts (buy to open)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeOptionTrade(cmd, args, true)
	},
}

var optionSellCmd = &cobra.Command{
	Use:   "sell [symbol] [quantity]",
	Short: "Sell option contracts (sell to close)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeOptionTrade(cmd, args, false)
	},
}

func executeStockTrade(cmd *cobra.Command, args []string, buy bool) error {
	orderType, _ := cmd.Flags().GetString("type")
	limitPrice, _ := cmd.Flags().GetString("limit")
	stopPrice, _ := cmd.Flags().GetString("stop")
	tif, _ := cmd.Flags().GetString("tif")

	// Validation happens before any network I/O
	req, err := order.BuildStock(order.StockDraft{
		Symbol:      args[0],
		Quantity:    args[1],
		OrderType:   models.OrderType(strings.ToUpper(orderType)),
		TimeInForce: models.TimeInForce(strings.ToUpper(tif)),
		LimitPrice:  limitPrice,
		StopPrice:   stopPrice,
		Buy:         buy,
	})
	if err != nil {
		return err
	}

	if err := checkLiveMode(); err != nil {
		return err
	}

	ctx := context.Background()
	if err := ensureReady(ctx); err != nil {
		return err
	}

	if quote, err := session.Quote(ctx, req.Symbol); err == nil {
		spreadResult := riskManager.CheckSpread(quote)
		if !spreadResult.Passed {
			return fmt.Errorf("spread check failed: %s", spreadResult.Reason)
		}
		for _, warning := range spreadResult.Warnings {
			fmt.Printf("⚠️  %s\n", warning)
		}
		fmt.Printf("Last: $%.2f | Bid: $%.2f | Ask: $%.2f\n",
			quote.Last.InexactFloat64(), quote.Bid.InexactFloat64(), quote.Ask.InexactFloat64())
	} else {
		fmt.Printf("⚠️  No quote available - spread check skipped\n")
	}

	showStockOrderPreview(req)

	if yes, _ := cmd.Flags().GetBool("yes"); !yes && !confirmOrder() {
		fmt.Println("Order cancelled")
		return nil
	}

	resp, err := session.PlaceStockOrder(ctx, req)
	if err != nil {
		return fmt.Errorf("order failed: %w", err)
	}

	fmt.Println(formatters.FormatOrderResponse(resp))
	return nil
}

func executeOptionTrade(cmd *cobra.Command, args []string, buy bool) error {
	expiry, _ := cmd.Flags().GetString("expiry")
	strikeText, _ := cmd.Flags().GetString("strike")
	call, _ := cmd.Flags().GetBool("call")
	put, _ := cmd.Flags().GetBool("put")
	orderType, _ := cmd.Flags().GetString("type")
	limitPrice, _ := cmd.Flags().GetString("limit")

	if call == put {
		return fmt.Errorf("specify exactly one of --call or --put")
	}

	strike, err := decimal.NewFromString(strikeText)
	if err != nil {
		return fmt.Errorf("invalid strike %q: %w", strikeText, err)
	}

	req, err := order.BuildOption(order.OptionDraft{
		Symbol:     args[0],
		Expiry:     expiry,
		Strike:     strike,
		Call:       call,
		Quantity:   args[1],
		OrderType:  models.OrderType(strings.ToUpper(orderType)),
		LimitPrice: limitPrice,
		Buy:        buy,
	})
	if err != nil {
		return err
	}

	if err := checkLiveMode(); err != nil {
		return err
	}

	ctx := context.Background()
	if err := ensureReady(ctx); err != nil {
		return err
	}

	// Check the contract's liquidity when the chain row is available
	if chain, err := session.OptionChain(ctx, req.Symbol, req.Expiry); err == nil {
		if contract := findContract(chain, req); contract != nil {
			result := riskManager.CheckContract(contract)
			if !result.Passed {
				return fmt.Errorf("contract check failed: %s", result.Reason)
			}
			for _, warning := range result.Warnings {
				fmt.Printf("⚠️  %s\n", warning)
			}
			fmt.Println(formatters.FormatContractGreeks(contract))
		}
	}

	showOptionOrderPreview(req)

	if yes, _ := cmd.Flags().GetBool("yes"); !yes && !confirmOrder() {
		fmt.Println("Order cancelled")
		return nil
	}

	resp, err := session.PlaceOptionOrder(ctx, req)
	if err != nil {
		return fmt.Errorf("order failed: %w", err)
	}

	fmt.Println(formatters.FormatOrderResponse(resp))
	return nil
}

func findContract(chain *models.OptionChain, req *models.OptionOrderRequest) *models.OptionContract {
	contracts := chain.Calls
	if req.Right == models.Put {
		contracts = chain.Puts
	}
	for i := range contracts {
		if contracts[i].Strike.Equal(req.Strike) {
			return &contracts[i]
		}
	}
	return nil
}

func showStockOrderPreview(req *models.StockOrderRequest) {
	fmt.Printf("\n📋 Order preview:\n")
	fmt.Printf("  %s %d %s\n", req.Side, req.Quantity, req.Symbol)
	fmt.Printf("  Type: %s (%s)\n", req.OrderType, req.OrderType.DisplayName())
	if req.LimitPrice != nil {
		fmt.Printf("  Limit: $%.2f\n", req.LimitPrice.InexactFloat64())
	}
	if req.StopPrice != nil {
		fmt.Printf("  Stop: $%.2f\n", req.StopPrice.InexactFloat64())
	}
	fmt.Printf("  TIF: %s\n", req.TimeInForce)
}

func showOptionOrderPreview(req *models.OptionOrderRequest) {
	fmt.Printf("\n📋 Order preview:\n")
	fmt.Printf("  %s %d %s %s %s @ strike %.2f\n",
		req.Side, req.Quantity, req.Symbol, req.Expiry, req.Right, req.Strike.InexactFloat64())
	fmt.Printf("  Type: %s (%s)\n", req.OrderType, req.OrderType.DisplayName())
	if req.LimitPrice != nil {
		fmt.Printf("  Limit: $%.2f\n", req.LimitPrice.InexactFloat64())
	}
}

func confirmOrder() bool {
	fmt.Print("\nSubmit order? (y/N): ")
	var confirm string
	fmt.Scanln(&confirm)
	return strings.ToLower(confirm) == "y"
}

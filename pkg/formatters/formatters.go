package formatters

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/frankywashere/boomtrade/internal/models"
)

// Colors for different values
var (
	ColorGreen  = text.FgGreen
	ColorRed    = text.FgRed
	ColorYellow = text.FgYellow
	ColorBlue   = text.FgCyan
	ColorWhite  = text.FgWhite
	ColorGray   = text.FgHiBlack
)

// FormatPercent formats a percentage with color
func FormatPercent(percent decimal.Decimal) string {
	sign := ""
	if percent.IsPositive() {
		sign = "+"
	}

	percentStr := fmt.Sprintf("%s%.2f%%", sign, percent.InexactFloat64())

	if percent.IsPositive() {
		return ColorGreen.Sprint(percentStr)
	} else if percent.IsNegative() {
		return ColorRed.Sprint(percentStr)
	}
	return percentStr
}

// FormatDollarAmount formats a dollar amount with appropriate color
func FormatDollarAmount(amount decimal.Decimal) string {
	amountStr := fmt.Sprintf("$%.2f", amount.Abs().InexactFloat64())

	if amount.IsNegative() {
		return ColorRed.Sprint("-" + amountStr)
	}
	return ColorGreen.Sprint(amountStr)
}

// FormatVolume formats large numbers with K/M/B suffixes
func FormatVolume(volume int64) string {
	if volume >= 1_000_000_000 {
		return fmt.Sprintf("%.1fB", float64(volume)/1_000_000_000)
	} else if volume >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(volume)/1_000_000)
	} else if volume >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(volume)/1_000)
	}
	return fmt.Sprintf("%d", volume)
}

// FormatQuote creates a one-screen market snapshot display
func FormatQuote(quote *models.MarketQuote) string {
	if quote == nil {
		return "No data available"
	}

	var parts []string

	change := quote.Last.Sub(quote.Close)
	changePercent := decimal.Zero
	if !quote.Close.IsZero() {
		changePercent = change.Div(quote.Close).Mul(decimal.NewFromInt(100))
	}

	parts = append(parts, fmt.Sprintf("\n%s", text.Bold.Sprint(quote.Symbol)))
	parts = append(parts, fmt.Sprintf("Last: $%.2f %s (%s)",
		quote.Last.InexactFloat64(),
		FormatDollarAmount(change),
		FormatPercent(changePercent)))
	parts = append(parts, fmt.Sprintf("Bid: %s | Ask: %s",
		ColorGreen.Sprintf("$%.2f", quote.Bid.InexactFloat64()),
		ColorRed.Sprintf("$%.2f", quote.Ask.InexactFloat64())))
	parts = append(parts, fmt.Sprintf("Open: $%.2f | High: $%.2f | Low: $%.2f | Volume: %s",
		quote.Open.InexactFloat64(),
		quote.High.InexactFloat64(),
		quote.Low.InexactFloat64(),
		FormatVolume(quote.Volume)))

	return strings.Join(parts, "\n")
}

// FormatPositionsTable creates a pretty positions table
func FormatPositionsTable(positions []models.Position) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{
		"Symbol", "Qty", "Avg Cost", "Current", "Unrealized", "Realized", "Chg %", "Value"})

	totalPL := decimal.Zero
	totalValue := decimal.Zero

	for i := range positions {
		pos := &positions[i]
		plColor := ColorGreen
		if pos.UnrealizedPnL.IsNegative() {
			plColor = ColorRed
		}

		t.AppendRow(table.Row{
			pos.Symbol,
			pos.Quantity,
			fmt.Sprintf("$%.2f", pos.AveragePrice.InexactFloat64()),
			fmt.Sprintf("$%.2f", pos.CurrentPrice.InexactFloat64()),
			plColor.Sprintf("$%.2f", pos.UnrealizedPnL.InexactFloat64()),
			fmt.Sprintf("$%.2f", pos.RealizedPnL.InexactFloat64()),
			FormatPercent(pos.PercentChange()),
			fmt.Sprintf("$%.2f", pos.TotalValue().InexactFloat64()),
		})

		totalPL = totalPL.Add(pos.UnrealizedPnL)
		totalValue = totalValue.Add(pos.TotalValue())
	}

	t.AppendSeparator()
	t.AppendRow(table.Row{
		"TOTAL", "", "", "",
		FormatDollarAmount(totalPL),
		"", "",
		fmt.Sprintf("$%.2f", totalValue.InexactFloat64()),
	})

	return t.Render()
}

// FormatAccount creates a pretty account summary
func FormatAccount(account *models.Account) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	t.AppendRow(table.Row{"Account", account.ID})
	t.AppendRow(table.Row{"Type", account.AccountType})
	t.AppendRow(table.Row{"Currency", account.Currency})

	return t.Render()
}

// FormatOptionChainTable renders a chain with calls and puts side by side,
// strikes in the middle.
func FormatOptionChainTable(chain *models.OptionChain) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%s %s", chain.Symbol, chain.Expiry))

	t.AppendHeader(table.Row{
		"C Bid", "C Ask", "C Last", "C Vol", "C OI", "Strike",
		"P Bid", "P Ask", "P Last", "P Vol", "P OI"})

	puts := make(map[string]*models.OptionContract, len(chain.Puts))
	for i := range chain.Puts {
		puts[chain.Puts[i].Strike.String()] = &chain.Puts[i]
	}

	for i := range chain.Calls {
		call := &chain.Calls[i]
		row := table.Row{
			fmt.Sprintf("%.2f", call.Bid.InexactFloat64()),
			fmt.Sprintf("%.2f", call.Ask.InexactFloat64()),
			fmt.Sprintf("%.2f", call.Last.InexactFloat64()),
			FormatVolume(call.Volume),
			FormatVolume(call.OpenInterest),
			text.Bold.Sprintf("%.2f", call.Strike.InexactFloat64()),
		}

		if put, ok := puts[call.Strike.String()]; ok {
			row = append(row,
				fmt.Sprintf("%.2f", put.Bid.InexactFloat64()),
				fmt.Sprintf("%.2f", put.Ask.InexactFloat64()),
				fmt.Sprintf("%.2f", put.Last.InexactFloat64()),
				FormatVolume(put.Volume),
				FormatVolume(put.OpenInterest))
		} else {
			row = append(row, "", "", "", "", "")
		}

		t.AppendRow(row)
	}

	return t.Render()
}

// FormatContractGreeks renders the optional Greeks line for one contract
func FormatContractGreeks(contract *models.OptionContract) string {
	if contract.Delta == nil && contract.Gamma == nil && contract.Theta == nil && contract.Vega == nil {
		return ColorGray.Sprint("Greeks not available")
	}

	part := func(name string, v *decimal.Decimal) string {
		if v == nil {
			return fmt.Sprintf("%s: n/a", name)
		}
		return fmt.Sprintf("%s: %.4f", name, v.InexactFloat64())
	}

	return fmt.Sprintf("IV: %.2f%% | %s | %s | %s | %s",
		contract.ImpliedVolatility.Mul(decimal.NewFromInt(100)).InexactFloat64(),
		part("Δ", contract.Delta),
		part("Γ", contract.Gamma),
		part("Θ", contract.Theta),
		part("V", contract.Vega))
}

// FormatOpenOrdersTable creates a pretty open orders table
func FormatOpenOrdersTable(orders []models.OpenOrder) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Order ID", "Symbol", "Side", "Type", "Qty", "Price", "Status"})

	for i := range orders {
		order := &orders[i]
		sideColor := ColorGreen
		if order.Side == models.Sell {
			sideColor = ColorRed
		}

		price := "Market"
		if order.LimitPrice != nil {
			price = fmt.Sprintf("$%.2f", order.LimitPrice.InexactFloat64())
		}

		t.AppendRow(table.Row{
			order.OrderID,
			order.Symbol,
			sideColor.Sprint(string(order.Side)),
			order.OrderType,
			order.Quantity,
			price,
			order.Status,
		})
	}

	if len(orders) == 0 {
		t.AppendRow(table.Row{"No open orders", "", "", "", "", "", ""})
	}

	return t.Render()
}

// FormatOrderResponse renders the gateway's order acknowledgement
func FormatOrderResponse(resp *models.OrderResponse) string {
	statusColor := ColorYellow
	switch strings.ToLower(resp.Status) {
	case "filled", "submitted", "accepted":
		statusColor = ColorGreen
	case "rejected", "cancelled", "canceled", "error":
		statusColor = ColorRed
	}

	out := fmt.Sprintf("Order %s • %s", text.Bold.Sprint(resp.OrderID), statusColor.Sprint(resp.Status))
	if resp.Message != nil && *resp.Message != "" {
		out += fmt.Sprintf("\n%s", *resp.Message)
	}
	return out
}

// TruncateString truncates a string to specified length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

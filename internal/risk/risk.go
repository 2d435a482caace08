package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/frankywashere/boomtrade/internal/config"
	"github.com/frankywashere/boomtrade/internal/models"
)

// Manager handles pre-trade liquidity checks
type Manager struct {
	cfg *config.Config
}

// NewManager creates a new risk manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// CheckResult contains the result of a risk check
type CheckResult struct {
	Passed   bool
	Reason   string
	Warnings []string
}

// CheckSpread validates the bid-ask spread isn't too wide to trade into
func (m *Manager) CheckSpread(quote *models.MarketQuote) CheckResult {
	return m.checkSpread(quote.Bid, quote.Ask)
}

// CheckContract validates an option contract's spread and liquidity
func (m *Manager) CheckContract(contract *models.OptionContract) CheckResult {
	result := m.checkSpread(contract.Bid, contract.Ask)
	if !result.Passed {
		return result
	}

	if contract.Volume == 0 {
		result.Warnings = append(result.Warnings, "No volume traded today")
	}
	if contract.OpenInterest == 0 {
		result.Warnings = append(result.Warnings, "No open interest at this strike")
	}

	return result
}

func (m *Manager) checkSpread(bid, ask decimal.Decimal) CheckResult {
	if bid.IsZero() || ask.IsZero() {
		return CheckResult{
			Passed: false,
			Reason: "Invalid quote: missing bid or ask",
		}
	}

	spread := ask.Sub(bid)
	midPrice := bid.Add(ask).Div(decimal.NewFromInt(2))

	if midPrice.IsZero() {
		return CheckResult{
			Passed: false,
			Reason: "Invalid quote: mid price is zero",
		}
	}

	spreadPercent := spread.Div(midPrice).Mul(decimal.NewFromInt(100))
	maxSpread := decimal.NewFromFloat(m.cfg.MaxSpreadPercent)

	if spreadPercent.GreaterThan(maxSpread) {
		return CheckResult{
			Passed: false,
			Reason: fmt.Sprintf("Spread %.2f%% exceeds maximum %.2f%%",
				spreadPercent.InexactFloat64(), maxSpread.InexactFloat64()),
		}
	}

	result := CheckResult{Passed: true}
	if spreadPercent.GreaterThan(decimal.NewFromFloat(1.0)) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Wide spread: %.2f%%", spreadPercent.InexactFloat64()))
	}

	return result
}

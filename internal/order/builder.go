// Package order turns raw user input from the presentation layer into
// validated, wire-ready order requests. Invalid input is reported
// unmodified; nothing is guessed or defaulted except the DAY time-in-force.
package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/frankywashere/boomtrade/internal/gateway"
	"github.com/frankywashere/boomtrade/internal/models"
)

// StockDraft is the raw equity order input: text fields and picker
// selections exactly as the UI collected them.
type StockDraft struct {
	Symbol      string
	Quantity    string
	OrderType   models.OrderType
	TimeInForce models.TimeInForce
	LimitPrice  string
	StopPrice   string
	Buy         bool
}

// OptionDraft is the raw option order input. Strike comes typed from the
// selected chain row, and the right from the call/put toggle, never from
// free text.
type OptionDraft struct {
	Symbol     string
	Expiry     string
	Strike     decimal.Decimal
	Call       bool
	Quantity   string
	OrderType  models.OrderType
	LimitPrice string
	Buy        bool
}

// BuildStock validates a draft and constructs the wire-ready request.
func BuildStock(d StockDraft) (*models.StockOrderRequest, error) {
	symbol, err := parseSymbol(d.Symbol)
	if err != nil {
		return nil, err
	}
	quantity, err := parseQuantity(d.Quantity)
	if err != nil {
		return nil, err
	}
	if !d.OrderType.Valid() {
		return nil, fmt.Errorf("%w: unknown order type %q", gateway.ErrValidation, d.OrderType)
	}

	tif := d.TimeInForce
	if tif == "" {
		tif = models.Day
	}
	if !tif.Valid() {
		return nil, fmt.Errorf("%w: unknown time in force %q", gateway.ErrValidation, d.TimeInForce)
	}

	limitPrice, err := parsePrice("limit price", d.LimitPrice, d.OrderType.RequiresLimitPrice())
	if err != nil {
		return nil, err
	}
	stopPrice, err := parsePrice("stop price", d.StopPrice, d.OrderType.RequiresStopPrice())
	if err != nil {
		return nil, err
	}

	return &models.StockOrderRequest{
		Symbol:      symbol,
		Quantity:    quantity,
		OrderType:   d.OrderType,
		Side:        side(d.Buy),
		LimitPrice:  limitPrice,
		StopPrice:   stopPrice,
		TimeInForce: tif,
	}, nil
}

// BuildOption validates a draft and constructs the wire-ready request.
// The option wire format carries no stop price, so stop-class order types
// are rejected outright.
func BuildOption(d OptionDraft) (*models.OptionOrderRequest, error) {
	symbol, err := parseSymbol(d.Symbol)
	if err != nil {
		return nil, err
	}
	quantity, err := parseQuantity(d.Quantity)
	if err != nil {
		return nil, err
	}
	if !d.OrderType.Valid() {
		return nil, fmt.Errorf("%w: unknown order type %q", gateway.ErrValidation, d.OrderType)
	}
	if d.OrderType.RequiresStopPrice() {
		return nil, fmt.Errorf("%w: %s orders are not supported for options", gateway.ErrValidation, d.OrderType)
	}
	if len(d.Expiry) != 8 {
		return nil, fmt.Errorf("%w: expiry must be an 8-digit YYYYMMDD code, got %q", gateway.ErrValidation, d.Expiry)
	}
	if _, err := strconv.Atoi(d.Expiry); err != nil {
		return nil, fmt.Errorf("%w: expiry must be an 8-digit YYYYMMDD code, got %q", gateway.ErrValidation, d.Expiry)
	}
	if !d.Strike.IsPositive() {
		return nil, fmt.Errorf("%w: strike must be positive, got %s", gateway.ErrValidation, d.Strike)
	}

	limitPrice, err := parsePrice("limit price", d.LimitPrice, d.OrderType.RequiresLimitPrice())
	if err != nil {
		return nil, err
	}

	return &models.OptionOrderRequest{
		Symbol:     symbol,
		Expiry:     d.Expiry,
		Strike:     d.Strike,
		Right:      right(d.Call),
		Quantity:   quantity,
		OrderType:  d.OrderType,
		Side:       side(d.Buy),
		LimitPrice: limitPrice,
	}, nil
}

// side maps the buy/sell flag to the two wire values. Buy-to-open and
// sell-to-close collapse onto the same pair.
func side(buy bool) models.OrderSide {
	if buy {
		return models.Buy
	}
	return models.Sell
}

// right maps the call/put toggle to the contract class code.
func right(call bool) models.OptionRight {
	if call {
		return models.Call
	}
	return models.Put
}

func parseSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", fmt.Errorf("%w: symbol must not be empty", gateway.ErrValidation)
	}
	return symbol, nil
}

func parseQuantity(raw string) (int64, error) {
	quantity, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity must be a whole number, got %q", gateway.ErrValidation, raw)
	}
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive, got %d", gateway.ErrValidation, quantity)
	}
	return quantity, nil
}

// parsePrice parses an optional price field. Required prices must be
// present; any present price must be a positive number.
func parsePrice(label, raw string, required bool) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return nil, fmt.Errorf("%w: %s is required for this order type", gateway.ErrValidation, label)
		}
		return nil, nil
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number, got %q", gateway.ErrValidation, label, raw)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: %s must be positive, got %s", gateway.ErrValidation, label, price)
	}
	return &price, nil
}

package models

import (
	"github.com/shopspring/decimal"
)

// OrderSide represents buy or sell
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// Valid reports whether the side is one of the closed wire values.
func (s OrderSide) Valid() bool {
	return s == Buy || s == Sell
}

// OrderType represents the order type code sent to the gateway
type OrderType string

const (
	Market          OrderType = "MKT"
	Limit           OrderType = "LMT"
	Stop            OrderType = "STP"
	StopLimit       OrderType = "STP_LMT"
	Trailing        OrderType = "TRAIL"
	MarketIfTouched OrderType = "MIT"
	LimitIfTouched  OrderType = "LIT"
)

// OrderTypes lists every supported order type code.
var OrderTypes = []OrderType{Market, Limit, Stop, StopLimit, Trailing, MarketIfTouched, LimitIfTouched}

func (o OrderType) Valid() bool {
	switch o {
	case Market, Limit, Stop, StopLimit, Trailing, MarketIfTouched, LimitIfTouched:
		return true
	}
	return false
}

// RequiresLimitPrice reports whether the order type is limit-class.
func (o OrderType) RequiresLimitPrice() bool {
	return o == Limit || o == StopLimit || o == LimitIfTouched
}

// RequiresStopPrice reports whether the order type is stop-class.
func (o OrderType) RequiresStopPrice() bool {
	return o == Stop || o == StopLimit || o == Trailing
}

// DisplayName returns the human-readable name for pickers and tables.
func (o OrderType) DisplayName() string {
	switch o {
	case Market:
		return "Market"
	case Limit:
		return "Limit"
	case Stop:
		return "Stop"
	case StopLimit:
		return "Stop Limit"
	case Trailing:
		return "Trailing Stop"
	case MarketIfTouched:
		return "Market if Touched"
	case LimitIfTouched:
		return "Limit if Touched"
	}
	return string(o)
}

// TimeInForce represents order duration
type TimeInForce string

const (
	Day TimeInForce = "DAY"
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
)

func (t TimeInForce) Valid() bool {
	switch t {
	case Day, GTC, IOC, FOK:
		return true
	}
	return false
}

func (t TimeInForce) DisplayName() string {
	switch t {
	case Day:
		return "Day"
	case GTC:
		return "Good Till Canceled"
	case IOC:
		return "Immediate or Cancel"
	case FOK:
		return "Fill or Kill"
	}
	return string(t)
}

// OptionRight represents the option contract class, call or put
type OptionRight string

const (
	Call OptionRight = "C"
	Put  OptionRight = "P"
)

func (r OptionRight) Valid() bool {
	return r == Call || r == Put
}

// Credentials authenticates a cloud gateway session. Ephemeral: built per
// connect attempt, never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Account  string `json:"account,omitempty"`
}

// ConnectionConfig targets a local socket gateway. Port 7497 is paper
// trading, 7496 live.
type ConnectionConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	ClientID int    `json:"clientId"`
}

// GatewayStatus is the handshake body returned by the start-session endpoints.
type GatewayStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Account represents brokerage account information
type Account struct {
	ID          string `json:"id"`
	AccountType string `json:"accountType"`
	Currency    string `json:"currency"`
}

// Position represents a current position. The collection is replaced
// wholesale on each refresh.
type Position struct {
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	RealizedPnL   decimal.Decimal `json:"realized_pnl"`
}

// TotalValue returns quantity x current price.
func (p *Position) TotalValue() decimal.Decimal {
	return p.CurrentPrice.Mul(decimal.NewFromInt(p.Quantity))
}

// PercentChange returns (current - average) / average x 100, or zero when
// the average price is zero.
func (p *Position) PercentChange() decimal.Decimal {
	if p.AveragePrice.IsZero() {
		return decimal.Zero
	}
	return p.CurrentPrice.Sub(p.AveragePrice).Div(p.AveragePrice).Mul(decimal.NewFromInt(100))
}

// MarketQuote is a point-in-time snapshot for a symbol
type MarketQuote struct {
	Symbol string          `json:"symbol"`
	Last   decimal.Decimal `json:"last"`
	Bid    decimal.Decimal `json:"bid"`
	Ask    decimal.Decimal `json:"ask"`
	Volume int64           `json:"volume"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
}

// OptionChain holds the call and put contracts for one underlying and
// expiry (8-digit YYYYMMDD date code).
type OptionChain struct {
	Symbol string           `json:"symbol"`
	Expiry string           `json:"expiry"`
	Calls  []OptionContract `json:"calls"`
	Puts   []OptionContract `json:"puts"`
}

// OptionContract is one strike row in a chain. Greeks are absent when the
// gateway does not compute them.
type OptionContract struct {
	Strike            decimal.Decimal  `json:"strike"`
	Bid               decimal.Decimal  `json:"bid"`
	Ask               decimal.Decimal  `json:"ask"`
	Last              decimal.Decimal  `json:"last"`
	Volume            int64            `json:"volume"`
	OpenInterest      int64            `json:"open_interest"`
	ImpliedVolatility decimal.Decimal  `json:"implied_volatility"`
	Delta             *decimal.Decimal `json:"delta,omitempty"`
	Gamma             *decimal.Decimal `json:"gamma,omitempty"`
	Theta             *decimal.Decimal `json:"theta,omitempty"`
	Vega              *decimal.Decimal `json:"vega,omitempty"`
}

// StockOrderRequest is a validated, wire-ready equity order
type StockOrderRequest struct {
	Symbol      string           `json:"symbol"`
	Quantity    int64            `json:"quantity"`
	OrderType   OrderType        `json:"order_type"`
	Side        OrderSide        `json:"side"`
	LimitPrice  *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice   *decimal.Decimal `json:"stop_price,omitempty"`
	TimeInForce TimeInForce      `json:"time_in_force"`
}

// OptionOrderRequest is a validated, wire-ready option order. Symbol is the
// underlying.
type OptionOrderRequest struct {
	Symbol     string           `json:"symbol"`
	Expiry     string           `json:"expiry"`
	Strike     decimal.Decimal  `json:"strike"`
	Right      OptionRight      `json:"right"`
	Quantity   int64            `json:"quantity"`
	OrderType  OrderType        `json:"order_type"`
	Side       OrderSide        `json:"side"`
	LimitPrice *decimal.Decimal `json:"limit_price,omitempty"`
}

// OrderResponse is the gateway's acknowledgement of a placed order
type OrderResponse struct {
	OrderID string  `json:"orderId"`
	Status  string  `json:"status"`
	Message *string `json:"message,omitempty"`
}

// OpenOrder is one row from the local gateway's open-order listing
type OpenOrder struct {
	OrderID    string           `json:"orderId"`
	Symbol     string           `json:"symbol"`
	Quantity   int64            `json:"quantity"`
	OrderType  OrderType        `json:"order_type"`
	Side       OrderSide        `json:"side"`
	LimitPrice *decimal.Decimal `json:"limit_price,omitempty"`
	Status     string           `json:"status"`
}

// DecimalPtr is a helper to create a decimal pointer
func DecimalPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

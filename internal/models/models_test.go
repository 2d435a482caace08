package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPositionRoundTrip(t *testing.T) {
	original := Position{
		Symbol:        "AAPL",
		Quantity:      100,
		AveragePrice:  decimal.NewFromFloat(145.50),
		CurrentPrice:  decimal.NewFromFloat(150.25),
		UnrealizedPnL: decimal.NewFromFloat(475.00),
		RealizedPnL:   decimal.NewFromFloat(-32.10),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Wire schema uses snake_case renames
	for _, key := range []string{"average_price", "current_price", "unrealized_pnl", "realized_pnl"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected wire key %q in %s", key, data)
		}
	}

	var decoded Position
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Symbol != original.Symbol || decoded.Quantity != original.Quantity {
		t.Errorf("Round trip changed identity: %+v", decoded)
	}
	if !decoded.AveragePrice.Equal(original.AveragePrice) ||
		!decoded.CurrentPrice.Equal(original.CurrentPrice) ||
		!decoded.UnrealizedPnL.Equal(original.UnrealizedPnL) ||
		!decoded.RealizedPnL.Equal(original.RealizedPnL) {
		t.Errorf("Round trip changed prices: %+v", decoded)
	}
}

func TestPositionDerivedFields(t *testing.T) {
	pos := Position{
		Quantity:     100,
		AveragePrice: decimal.NewFromFloat(100.00),
		CurrentPrice: decimal.NewFromFloat(150.00),
	}

	if !pos.TotalValue().Equal(decimal.NewFromInt(15000)) {
		t.Errorf("Expected total value 15000, got %s", pos.TotalValue())
	}
	if !pos.PercentChange().Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected percent change 50, got %s", pos.PercentChange())
	}

	// Zero average price must not divide by zero
	pos.AveragePrice = decimal.Zero
	if !pos.PercentChange().IsZero() {
		t.Errorf("Expected zero percent change with zero average, got %s", pos.PercentChange())
	}
}

func TestOptionChainRoundTrip(t *testing.T) {
	original := OptionChain{
		Symbol: "SPY",
		Expiry: "20260918",
		Calls: []OptionContract{
			{
				Strike:            decimal.NewFromInt(450),
				Bid:               decimal.NewFromFloat(5.10),
				Ask:               decimal.NewFromFloat(5.30),
				Last:              decimal.NewFromFloat(5.20),
				Volume:            1200,
				OpenInterest:      5400,
				ImpliedVolatility: decimal.NewFromFloat(0.22),
				Delta:             DecimalPtr(0.55),
				Gamma:             DecimalPtr(0.03),
				Theta:             DecimalPtr(-0.08),
				Vega:              DecimalPtr(0.12),
			},
		},
		Puts: []OptionContract{
			{
				Strike:            decimal.NewFromInt(450),
				Bid:               decimal.NewFromFloat(4.80),
				Ask:               decimal.NewFromFloat(5.00),
				Last:              decimal.NewFromFloat(4.90),
				Volume:            900,
				OpenInterest:      3100,
				ImpliedVolatility: decimal.NewFromFloat(0.24),
				// Greeks absent: gateway did not compute them
			},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded OptionChain
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Symbol != "SPY" || decoded.Expiry != "20260918" {
		t.Errorf("Round trip changed chain identity: %+v", decoded)
	}
	if len(decoded.Calls) != 1 || len(decoded.Puts) != 1 {
		t.Fatalf("Round trip changed contract counts: %d calls, %d puts", len(decoded.Calls), len(decoded.Puts))
	}

	call := decoded.Calls[0]
	if call.Delta == nil || !call.Delta.Equal(decimal.NewFromFloat(0.55)) {
		t.Errorf("Call delta lost in round trip: %v", call.Delta)
	}
	if call.OpenInterest != 5400 {
		t.Errorf("Expected open interest 5400, got %d", call.OpenInterest)
	}

	put := decoded.Puts[0]
	if put.Delta != nil || put.Gamma != nil || put.Theta != nil || put.Vega != nil {
		t.Errorf("Absent Greeks must stay absent after round trip: %+v", put)
	}
}

func TestOptionContractOmitsAbsentGreeks(t *testing.T) {
	contract := OptionContract{Strike: decimal.NewFromInt(100)}

	data, err := json.Marshal(contract)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "delta") {
		t.Errorf("Absent delta should be omitted, got %s", data)
	}
}

func TestOrderResponseRoundTrip(t *testing.T) {
	msg := "order accepted"
	original := OrderResponse{OrderID: "42", Status: "submitted", Message: &msg}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"orderId":"42"`) {
		t.Errorf("Expected orderId wire key, got %s", data)
	}

	var decoded OrderResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.OrderID != "42" || decoded.Status != "submitted" {
		t.Errorf("Round trip changed response: %+v", decoded)
	}
	if decoded.Message == nil || *decoded.Message != msg {
		t.Errorf("Round trip lost message: %v", decoded.Message)
	}

	// Absent message stays absent
	bare := OrderResponse{OrderID: "43", Status: "filled"}
	data, _ = json.Marshal(bare)
	if strings.Contains(string(data), "message") {
		t.Errorf("Absent message should be omitted, got %s", data)
	}
}

func TestStockOrderRequestWireFormat(t *testing.T) {
	req := StockOrderRequest{
		Symbol:      "AAPL",
		Quantity:    100,
		OrderType:   Limit,
		Side:        Buy,
		LimitPrice:  DecimalPtr(150.25),
		TimeInForce: Day,
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	for _, key := range []string{`"order_type":"LMT"`, `"side":"BUY"`, `"limit_price":"150.25"`, `"time_in_force":"DAY"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %s in %s", key, data)
		}
	}
	if strings.Contains(string(data), "stop_price") {
		t.Errorf("Absent stop price should be omitted, got %s", data)
	}
}

func TestOrderTypeClassification(t *testing.T) {
	limitClass := map[OrderType]bool{Limit: true, StopLimit: true, LimitIfTouched: true}
	stopClass := map[OrderType]bool{Stop: true, StopLimit: true, Trailing: true}

	for _, ot := range OrderTypes {
		if ot.RequiresLimitPrice() != limitClass[ot] {
			t.Errorf("%s: RequiresLimitPrice()=%v, want %v", ot, ot.RequiresLimitPrice(), limitClass[ot])
		}
		if ot.RequiresStopPrice() != stopClass[ot] {
			t.Errorf("%s: RequiresStopPrice()=%v, want %v", ot, ot.RequiresStopPrice(), stopClass[ot])
		}
		if !ot.Valid() {
			t.Errorf("%s should be valid", ot)
		}
	}

	if OrderType("LIMIT").Valid() {
		t.Error("free-form order type should not validate")
	}
	if TimeInForce("gtc").Valid() {
		t.Error("lowercase TIF should not validate")
	}
	if OptionRight("X").Valid() {
		t.Error("unknown right should not validate")
	}
}

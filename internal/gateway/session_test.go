package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/frankywashere/boomtrade/internal/config"
	"github.com/frankywashere/boomtrade/internal/models"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		CloudBaseURL:   baseURL,
		LocalBaseURL:   baseURL,
		TWSHost:        "127.0.0.1",
		TWSPort:        7497,
		ClientID:       1,
		ConnectTimeout: 2 * time.Second,
		AuthTimeout:    2 * time.Second,
		HTTPTimeout:    2 * time.Second,
		CacheTTL:       time.Minute,
	}
}

func newTestSession(baseURL string, profile *Profile) *Session {
	cfg := testConfig(baseURL)
	cfg.Variant = profile.Name
	return NewSession(cfg, profile, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// cloudGateway fakes the hosted backend: /gateway/start plus the shared
// domain endpoints.
func cloudGateway(startStatus string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/gateway/start", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.GatewayStatus{Status: startStatus, Message: "gateway " + startStatus})
	})
	mux.HandleFunc("/account", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Account{ID: "U1234567", AccountType: "INDIVIDUAL", Currency: "USD"})
	})
	return mux
}

func TestAuthenticateReady(t *testing.T) {
	server := httptest.NewServer(cloudGateway("ready"))
	defer server.Close()

	s := newTestSession(server.URL, &CloudProfile)

	err := s.Authenticate(context.Background(), models.Credentials{Username: "user", Password: "pass"})
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("Expected state ready, got %s", s.State())
	}

	// Best-effort refresh cached the account
	account, ok := s.CachedAccount()
	if !ok {
		t.Fatal("Expected cached account after connect")
	}
	if account.ID != "U1234567" {
		t.Errorf("Expected account U1234567, got %s", account.ID)
	}
}

func TestAuthenticatePendingFails(t *testing.T) {
	server := httptest.NewServer(cloudGateway("pending"))
	defer server.Close()

	s := newTestSession(server.URL, &CloudProfile)

	err := s.Authenticate(context.Background(), models.Credentials{Username: "user", Password: "pass"})
	if !errors.Is(err, ErrRejected) {
		t.Errorf("Expected ErrRejected for pending status, got %v", err)
	}
	if s.State() != StateFailed {
		t.Errorf("Expected state failed, got %s", s.State())
	}
	if s.FailureReason() == "" {
		t.Error("Expected a failure reason to be recorded")
	}
}

func TestAuthenticateTransportFailure(t *testing.T) {
	server := httptest.NewServer(cloudGateway("ready"))
	server.Close() // nothing listening

	s := newTestSession(server.URL, &CloudProfile)

	err := s.Authenticate(context.Background(), models.Credentials{Username: "user", Password: "pass"})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected ErrTransport, got %v", err)
	}
	if s.State() != StateFailed {
		t.Errorf("Expected state failed, got %s", s.State())
	}
}

func TestAuthenticateTimeout(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/gateway/start", func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	defer close(release) // unblock the handler before Close waits on it

	cfg := testConfig(server.URL)
	cfg.Variant = "cloud"
	cfg.AuthTimeout = 50 * time.Millisecond
	s := NewSession(cfg, &CloudProfile, zap.NewNop())

	err := s.Authenticate(context.Background(), models.Credentials{Username: "user", Password: "pass"})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got %v", err)
	}
	if s.State() != StateFailed {
		t.Errorf("Expected state failed, got %s", s.State())
	}
}

func TestConnectLocal(t *testing.T) {
	var got models.ConnectionConfig
	mux := http.NewServeMux()
	mux.HandleFunc("/connect", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, models.GatewayStatus{Status: "connected", Message: "TWS connected"})
	})
	mux.HandleFunc("/account", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Account{ID: "DU111", AccountType: "PAPER", Currency: "USD"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := newTestSession(server.URL, &LocalProfile)

	conn := models.ConnectionConfig{Host: "127.0.0.1", Port: 7497, ClientID: 7}
	if err := s.Connect(context.Background(), conn); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("Expected state ready, got %s", s.State())
	}
	if got != conn {
		t.Errorf("Gateway saw connection config %+v, want %+v", got, conn)
	}
}

func TestConnectWrongStatusFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/connect", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.GatewayStatus{Status: "error", Message: "TWS refused"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := newTestSession(server.URL, &LocalProfile)

	err := s.Connect(context.Background(), models.ConnectionConfig{Host: "127.0.0.1", Port: 7497, ClientID: 1})
	if !errors.Is(err, ErrRejected) {
		t.Errorf("Expected ErrRejected, got %v", err)
	}
	if s.State() != StateFailed {
		t.Errorf("Expected state failed, got %s", s.State())
	}
}

func TestConnectRefreshFailureDoesNotRevertReady(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/connect", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.GatewayStatus{Status: "connected", Message: "ok"})
	})
	mux.HandleFunc("/account", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error","message":"account unavailable"}`, http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := newTestSession(server.URL, &LocalProfile)

	if err := s.Connect(context.Background(), models.ConnectionConfig{Host: "h", Port: 7497, ClientID: 1}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("Refresh failure must not revert Ready, got %s", s.State())
	}
	if _, ok := s.CachedAccount(); ok {
		t.Error("Expected no cached account after failed refresh")
	}
}

func TestVariantMismatch(t *testing.T) {
	s := newTestSession("http://127.0.0.1:1", &CloudProfile)
	err := s.Connect(context.Background(), models.ConnectionConfig{Host: "h", Port: 7497, ClientID: 1})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported for Connect on cloud, got %v", err)
	}

	s = newTestSession("http://127.0.0.1:1", &LocalProfile)
	err = s.Authenticate(context.Background(), models.Credentials{Username: "u", Password: "p"})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported for Authenticate on local, got %v", err)
	}
}

func TestDomainOpsFailFastWhenNotReady(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	s := newTestSession(server.URL, &LocalProfile)
	ctx := context.Background()

	calls := []struct {
		name string
		call func() error
	}{
		{"Account", func() error { _, err := s.Account(ctx); return err }},
		{"Positions", func() error { _, err := s.Positions(ctx); return err }},
		{"Quote", func() error { _, err := s.Quote(ctx, "AAPL"); return err }},
		{"SearchOptionChains", func() error { _, err := s.SearchOptionChains(ctx, "SPY"); return err }},
		{"OptionChain", func() error { _, err := s.OptionChain(ctx, "SPY", "20260918"); return err }},
		{"PlaceStockOrder", func() error {
			_, err := s.PlaceStockOrder(ctx, &models.StockOrderRequest{Symbol: "AAPL", Quantity: 1, OrderType: models.Market, Side: models.Buy, TimeInForce: models.Day})
			return err
		}},
		{"PlaceOptionOrder", func() error {
			_, err := s.PlaceOptionOrder(ctx, &models.OptionOrderRequest{Symbol: "SPY", Expiry: "20260918", Right: models.Call, Quantity: 1, OrderType: models.Market, Side: models.Buy})
			return err
		}},
		{"OpenOrders", func() error { _, err := s.OpenOrders(ctx); return err }},
	}

	for _, tc := range calls {
		if err := tc.call(); !errors.Is(err, ErrNotReady) {
			t.Errorf("%s: expected ErrNotReady, got %v", tc.name, err)
		}
	}
	if requests != 0 {
		t.Errorf("Expected no network I/O before Ready, got %d requests", requests)
	}
}

func TestConcurrentConnectRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/connect", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		writeJSON(w, models.GatewayStatus{Status: "connected", Message: "ok"})
	})
	mux.HandleFunc("/account", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Account{ID: "DU111"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := newTestSession(server.URL, &LocalProfile)
	conn := models.ConnectionConfig{Host: "h", Port: 7497, ClientID: 1}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = s.Connect(context.Background(), conn)
	}()

	<-started
	if err := s.Connect(context.Background(), conn); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy for overlapping connect, got %v", err)
	}

	close(release)
	wg.Wait()
	if firstErr != nil {
		t.Errorf("First connect should have succeeded, got %v", firstErr)
	}
	if s.State() != StateReady {
		t.Errorf("Expected state ready, got %s", s.State())
	}

	// A third attempt while Ready is also rejected
	if err := s.Connect(context.Background(), conn); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy while Ready, got %v", err)
	}
}

func TestDisconnect(t *testing.T) {
	var disconnects int
	mux := http.NewServeMux()
	mux.HandleFunc("/connect", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.GatewayStatus{Status: "connected", Message: "ok"})
	})
	mux.HandleFunc("/account", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Account{ID: "DU111"})
	})
	mux.HandleFunc("/disconnect", func(w http.ResponseWriter, r *http.Request) {
		disconnects++
		writeJSON(w, models.GatewayStatus{Status: "disconnected", Message: "bye"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := newTestSession(server.URL, &LocalProfile)
	if err := s.Connect(context.Background(), models.ConnectionConfig{Host: "h", Port: 7497, ClientID: 1}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if _, ok := s.CachedAccount(); !ok {
		t.Fatal("Expected cached account while Ready")
	}

	if err := s.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	if s.State() != StateDisconnected {
		t.Errorf("Expected state disconnected, got %s", s.State())
	}
	if disconnects != 1 {
		t.Errorf("Expected 1 backend disconnect notification, got %d", disconnects)
	}
	if _, ok := s.CachedAccount(); ok {
		t.Error("Expected account cache cleared on disconnect")
	}

	// Failed -> Disconnected also works, and disconnect is always valid
	if err := s.Disconnect(context.Background()); err != nil {
		t.Errorf("Second disconnect failed: %v", err)
	}
}

func TestDisconnectBestEffortWhenBackendDown(t *testing.T) {
	server := httptest.NewServer(cloudGateway("ready"))
	s := newTestSession(server.URL, &CloudProfile)
	if err := s.Authenticate(context.Background(), models.Credentials{Username: "u", Password: "p"}); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	server.Close()

	if err := s.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect must not fail when backend is down: %v", err)
	}
	if s.State() != StateDisconnected {
		t.Errorf("Expected state disconnected, got %s", s.State())
	}
}

func TestReconnectAfterFailure(t *testing.T) {
	var attempts int
	mux := http.NewServeMux()
	mux.HandleFunc("/connect", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			writeJSON(w, models.GatewayStatus{Status: "error", Message: "first attempt refused"})
			return
		}
		writeJSON(w, models.GatewayStatus{Status: "connected", Message: "ok"})
	})
	mux.HandleFunc("/account", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Account{ID: "DU111"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := newTestSession(server.URL, &LocalProfile)
	conn := models.ConnectionConfig{Host: "h", Port: 7497, ClientID: 1}

	if err := s.Connect(context.Background(), conn); !errors.Is(err, ErrRejected) {
		t.Fatalf("Expected first connect to be rejected, got %v", err)
	}
	if s.State() != StateFailed {
		t.Fatalf("Expected state failed, got %s", s.State())
	}

	// Failed is a valid retry state
	if err := s.Connect(context.Background(), conn); err != nil {
		t.Fatalf("Retry from failed state should succeed: %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("Expected state ready, got %s", s.State())
	}
}

func TestNotifierDeliversTransitionsInOrder(t *testing.T) {
	server := httptest.NewServer(cloudGateway("ready"))
	defer server.Close()

	s := newTestSession(server.URL, &CloudProfile)

	var changes []StateChange
	unsubscribe := s.Subscribe(func(change StateChange) {
		changes = append(changes, change)
	})

	if err := s.Authenticate(context.Background(), models.Credentials{Username: "u", Password: "p"}); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	want := []struct{ from, to State }{
		{StateDisconnected, StateAuthenticating},
		{StateAuthenticating, StateReady},
	}
	if len(changes) != len(want) {
		t.Fatalf("Expected %d transitions, got %d: %+v", len(want), len(changes), changes)
	}
	for i, w := range want {
		if changes[i].From != w.from || changes[i].To != w.to {
			t.Errorf("Transition %d: got %s->%s, want %s->%s",
				i, changes[i].From, changes[i].To, w.from, w.to)
		}
	}

	// After unsubscribe, no further deliveries
	unsubscribe()
	if err := s.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect failed: %v", err)
	}
	if len(changes) != len(want) {
		t.Errorf("Unsubscribed listener still received %d changes", len(changes)-len(want))
	}
}

func TestFailureReasonClearedOnSuccess(t *testing.T) {
	var attempts int
	mux := http.NewServeMux()
	mux.HandleFunc("/gateway/start", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			writeJSON(w, models.GatewayStatus{Status: "pending", Message: "2FA pending"})
			return
		}
		writeJSON(w, models.GatewayStatus{Status: "ready", Message: "ok"})
	})
	mux.HandleFunc("/account", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Account{ID: "U1"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := newTestSession(server.URL, &CloudProfile)
	creds := models.Credentials{Username: "u", Password: "p"}

	_ = s.Authenticate(context.Background(), creds)
	if s.FailureReason() == "" {
		t.Fatal("Expected failure reason after rejected attempt")
	}

	if err := s.Authenticate(context.Background(), creds); err != nil {
		t.Fatalf("Second authenticate failed: %v", err)
	}
	if s.FailureReason() != "" {
		t.Errorf("Expected failure reason cleared, got %q", s.FailureReason())
	}
}

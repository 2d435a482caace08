package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/frankywashere/boomtrade/internal/models"
)

// client issues one HTTP request per logical operation against the
// configured gateway and maps every failure into the package taxonomy.
// Timeouts are carried by the caller's context, not the http.Client, so
// the long authenticate bound does not fight the default transport bound.
type client struct {
	httpClient *http.Client
	baseURL    string
	profile    *Profile
}

func newClient(baseURL string, profile *Profile) *client {
	return &client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		profile:    profile,
	}
}

// do performs one request. A nil body sends no payload; a nil target
// discards the response body after the status check.
func (c *client) do(ctx context.Context, method, path string, body, target interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return rejectionError(resp)
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// rejectionError extracts the gateway's message from a non-success
// response. The gateway answers errors with a {status,message} body; when
// it does not, the raw body is kept so nothing is swallowed.
func rejectionError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var status models.GatewayStatus
	if err := json.Unmarshal(raw, &status); err == nil && status.Message != "" {
		return fmt.Errorf("%w (HTTP %d): %s", ErrRejected, resp.StatusCode, status.Message)
	}
	return fmt.Errorf("%w (HTTP %d): %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(raw)))
}

// startSession posts the variant's start body (credentials for cloud,
// socket target for local) and returns the handshake status.
func (c *client) startSession(ctx context.Context, body interface{}) (*models.GatewayStatus, error) {
	var status models.GatewayStatus
	if err := c.do(ctx, http.MethodPost, c.profile.StartSessionPath, body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// endSession tells the backend the session is over. Variants without an
// end-session endpoint simply have nothing to notify.
func (c *client) endSession(ctx context.Context) error {
	if c.profile.EndSessionPath == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, c.profile.EndSessionPath, nil, nil)
}

func (c *client) account(ctx context.Context) (*models.Account, error) {
	var account models.Account
	if err := c.do(ctx, http.MethodGet, c.profile.AccountPath, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *client) positions(ctx context.Context) ([]models.Position, error) {
	var positions []models.Position
	if err := c.do(ctx, http.MethodGet, c.profile.PositionsPath, nil, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (c *client) quote(ctx context.Context, symbol string) (*models.MarketQuote, error) {
	var quote models.MarketQuote
	if err := c.do(ctx, http.MethodGet, c.profile.QuotePath(symbol), nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *client) searchOptionChains(ctx context.Context, symbol string) ([]models.OptionChain, error) {
	var chains []models.OptionChain
	if err := c.do(ctx, http.MethodGet, c.profile.SearchPath(symbol), nil, &chains); err != nil {
		return nil, err
	}
	return chains, nil
}

func (c *client) optionChain(ctx context.Context, symbol, expiry string) (*models.OptionChain, error) {
	var chain models.OptionChain
	if err := c.do(ctx, http.MethodGet, c.profile.ChainPath(symbol, expiry), nil, &chain); err != nil {
		return nil, err
	}
	return &chain, nil
}

func (c *client) placeStockOrder(ctx context.Context, order *models.StockOrderRequest) (*models.OrderResponse, error) {
	var resp models.OrderResponse
	if err := c.do(ctx, http.MethodPost, c.profile.StockOrderPath, order, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) placeOptionOrder(ctx context.Context, order *models.OptionOrderRequest) (*models.OrderResponse, error) {
	var resp models.OrderResponse
	if err := c.do(ctx, http.MethodPost, c.profile.OptionOrderPath, order, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) openOrders(ctx context.Context) ([]models.OpenOrder, error) {
	if c.profile.OpenOrdersPath == "" {
		return nil, fmt.Errorf("%w: open-order listing (%s gateway)", ErrUnsupported, c.profile.Name)
	}
	var orders []models.OpenOrder
	if err := c.do(ctx, http.MethodGet, c.profile.OpenOrdersPath, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

package gateway

import (
	"fmt"
	"net/url"
)

// Profile is the endpoint-path table for one backend variant. The cloud
// gateway owns IBKR authentication and is started with credentials; the
// local variant proxies an already-running terminal and is started with a
// host/port/clientId socket target. An empty path means the variant does
// not expose that operation.
type Profile struct {
	Name string

	// ReadyStatus is the wire status the start-session response must carry
	// for the session to become Ready.
	ReadyStatus string

	StartSessionPath string
	EndSessionPath   string
	AccountPath      string
	PositionsPath    string
	quoteFormat      string
	searchFormat     string
	chainFormat      string
	StockOrderPath   string
	OptionOrderPath  string
	OpenOrdersPath   string
}

// CloudProfile targets the hosted gateway that bootstraps IBKR remotely.
// Gateway startup plus two-factor approval can take 60-90s, hence the long
// authenticate timeout in config.
var CloudProfile = Profile{
	Name:             "cloud",
	ReadyStatus:      "ready",
	StartSessionPath: "/gateway/start",
	AccountPath:      "/account",
	PositionsPath:    "/positions",
	quoteFormat:      "/marketdata/%s",
	searchFormat:     "/options/search/%s",
	chainFormat:      "/options/chain/%s/%s",
	StockOrderPath:   "/order/stock",
	OptionOrderPath:  "/order/option",
}

// LocalProfile targets the local socket bridge in front of a running
// terminal (port 7497 paper, 7496 live).
var LocalProfile = Profile{
	Name:             "local",
	ReadyStatus:      "connected",
	StartSessionPath: "/connect",
	EndSessionPath:   "/disconnect",
	AccountPath:      "/account",
	PositionsPath:    "/positions",
	quoteFormat:      "/market-data/%s",
	searchFormat:     "/options/search/%s",
	chainFormat:      "/options/chain/%s/%s",
	StockOrderPath:   "/order/stock",
	OptionOrderPath:  "/order/option",
	OpenOrdersPath:   "/orders",
}

// QuotePath returns the market-data path for a symbol.
func (p *Profile) QuotePath(symbol string) string {
	return fmt.Sprintf(p.quoteFormat, url.PathEscape(symbol))
}

// SearchPath returns the option-chain search path for a symbol.
func (p *Profile) SearchPath(symbol string) string {
	return fmt.Sprintf(p.searchFormat, url.PathEscape(symbol))
}

// ChainPath returns the option-chain path for a symbol and YYYYMMDD expiry.
func (p *Profile) ChainPath(symbol, expiry string) string {
	return fmt.Sprintf(p.chainFormat, url.PathEscape(symbol), url.PathEscape(expiry))
}

// ProfileByName selects a profile for the configured variant name.
func ProfileByName(name string) (*Profile, error) {
	switch name {
	case CloudProfile.Name:
		return &CloudProfile, nil
	case LocalProfile.Name:
		return &LocalProfile, nil
	}
	return nil, fmt.Errorf("unknown gateway variant %q (want cloud or local)", name)
}

package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/frankywashere/boomtrade/internal/cache"
	"github.com/frankywashere/boomtrade/internal/config"
	"github.com/frankywashere/boomtrade/internal/models"
)

// State is the session's connection/authentication state.
type State string

const (
	StateDisconnected   State = "disconnected"
	StateConnecting     State = "connecting"
	StateAuthenticating State = "authenticating"
	StateReady          State = "ready"
	StateFailed         State = "failed"
)

// Session owns the connection lifecycle against one gateway backend and is
// the only process-wide mutable state: all transitions are serialized by a
// single mutex so observers never see a torn read. Domain operations are
// guarded behind the Ready precondition and fail fast without network I/O
// otherwise.
type Session struct {
	cfg      *config.Config
	profile  *Profile
	client   *client
	logger   *zap.Logger
	accounts *cache.Cache
	notifier *Notifier

	mu     sync.Mutex
	state  State
	reason string
}

// NewSession constructs a disconnected session for the given backend
// profile. There is no hidden global; the caller owns teardown via
// Disconnect.
func NewSession(cfg *config.Config, profile *Profile, logger *zap.Logger) *Session {
	return &Session{
		cfg:      cfg,
		profile:  profile,
		client:   newClient(cfg.BaseURL(), profile),
		logger:   logger,
		accounts: cache.NewCache(cfg.CacheTTL),
		notifier: NewNotifier(),
		state:    StateDisconnected,
	}
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FailureReason returns the cause recorded with the last Failed transition,
// or empty when the session is not failed.
func (s *Session) FailureReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Subscribe registers a state-change listener. See Notifier.Subscribe for
// delivery guarantees.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	return s.notifier.Subscribe(fn)
}

// Profile returns the backend profile the session was built with.
func (s *Session) Profile() *Profile {
	return s.profile
}

// transition applies one state change and notifies listeners. Callers must
// hold s.mu.
func (s *Session) transition(to State, reason string) {
	from := s.state
	s.state = to
	s.reason = reason
	s.logger.Info("session state change",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("reason", reason))
	s.notifier.emit(StateChange{From: from, To: to, Reason: reason, At: time.Now()})
}

// beginAttempt moves the session into the given in-flight state. Only one
// connect or authenticate may be in flight; a second attempt is rejected,
// never queued.
func (s *Session) beginAttempt(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateDisconnected, StateFailed:
		s.transition(to, "")
		return nil
	case StateConnecting, StateAuthenticating:
		return fmt.Errorf("%w (state %s)", ErrBusy, s.state)
	default:
		return fmt.Errorf("%w: already connected, disconnect first", ErrBusy)
	}
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transition(StateFailed, err.Error())
}

// finishAttempt validates the start-session handshake and settles the
// session in Ready or Failed.
func (s *Session) finishAttempt(status *models.GatewayStatus, err error) error {
	if err != nil {
		s.fail(err)
		return err
	}
	if status.Status != s.profile.ReadyStatus {
		err := fmt.Errorf("%w: gateway status %q: %s", ErrRejected, status.Status, status.Message)
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.transition(StateReady, "")
	s.mu.Unlock()

	s.refreshAccount()
	return nil
}

// Connect starts a local socket gateway session. Valid only from
// Disconnected or Failed; bounded by the configured connect timeout
// (default ~10s).
func (s *Session) Connect(ctx context.Context, conn models.ConnectionConfig) error {
	if s.profile.Name != LocalProfile.Name {
		return fmt.Errorf("%w: socket connect (%s gateway)", ErrUnsupported, s.profile.Name)
	}
	if err := s.beginAttempt(StateConnecting); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	defer cancel()

	status, err := s.client.startSession(ctx, conn)
	return s.finishAttempt(status, err)
}

// Authenticate starts a cloud gateway session with IBKR credentials. Valid
// only from Disconnected or Failed. The timeout is long (>=120s): remote
// gateway bootstrap plus two-factor approval can take 60-90s.
func (s *Session) Authenticate(ctx context.Context, creds models.Credentials) error {
	if s.profile.Name != CloudProfile.Name {
		return fmt.Errorf("%w: credential authentication (%s gateway)", ErrUnsupported, s.profile.Name)
	}
	if err := s.beginAttempt(StateAuthenticating); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.AuthTimeout)
	defer cancel()

	status, err := s.client.startSession(ctx, creds)
	return s.finishAttempt(status, err)
}

// Disconnect notifies the backend best-effort, then unconditionally resets
// to Disconnected and clears cached account data. Valid from any state.
func (s *Session) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.HTTPTimeout)
	defer cancel()

	if err := s.client.endSession(ctx); err != nil {
		s.logger.Warn("backend disconnect notification failed", zap.Error(err))
	}

	s.mu.Lock()
	s.transition(StateDisconnected, "")
	s.mu.Unlock()

	s.accounts.Clear()
	return nil
}

// refreshAccount caches the account snapshot after a successful connect.
// Best effort: failure is logged and does not revert the Ready state.
func (s *Session) refreshAccount() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTPTimeout)
	defer cancel()

	account, err := s.client.account(ctx)
	if err != nil {
		s.logger.Warn("post-connect account refresh failed", zap.Error(err))
		return
	}
	s.accounts.SetAccount(account)
}

// ready is the precondition guard for every domain operation.
func (s *Session) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return fmt.Errorf("%w (state %s)", ErrNotReady, s.state)
	}
	return nil
}

// opContext bounds a domain call with the default transport timeout.
func (s *Session) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.HTTPTimeout)
}

// Account fetches account information and refreshes the cached snapshot.
func (s *Session) Account(ctx context.Context) (*models.Account, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.client.account(ctx)
	if err != nil {
		return nil, err
	}
	s.accounts.SetAccount(account)
	return account, nil
}

// CachedAccount returns the last account snapshot without network I/O.
func (s *Session) CachedAccount() (*models.Account, bool) {
	return s.accounts.GetAccount()
}

// Positions fetches all open positions. The result replaces any previous
// view wholesale.
func (s *Session) Positions(ctx context.Context) ([]models.Position, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.positions(ctx)
}

// Quote fetches a point-in-time market snapshot for a symbol.
func (s *Session) Quote(ctx context.Context, symbol string) (*models.MarketQuote, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.quote(ctx, symbol)
}

// SearchOptionChains lists available chains for an underlying.
func (s *Session) SearchOptionChains(ctx context.Context, symbol string) ([]models.OptionChain, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.searchOptionChains(ctx, symbol)
}

// OptionChain fetches the chain for an underlying and YYYYMMDD expiry.
func (s *Session) OptionChain(ctx context.Context, symbol, expiry string) (*models.OptionChain, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.optionChain(ctx, symbol, expiry)
}

// PlaceStockOrder submits an equity order. Not idempotent: repeating the
// call creates a new order.
func (s *Session) PlaceStockOrder(ctx context.Context, order *models.StockOrderRequest) (*models.OrderResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.placeStockOrder(ctx, order)
}

// PlaceOptionOrder submits an option order. Not idempotent.
func (s *Session) PlaceOptionOrder(ctx context.Context, order *models.OptionOrderRequest) (*models.OrderResponse, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.placeOptionOrder(ctx, order)
}

// OpenOrders lists open orders. Local gateway only.
func (s *Session) OpenOrders(ctx context.Context) ([]models.OpenOrder, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.client.openOrders(ctx)
}

package cache

import (
	"time"

	"github.com/frankywashere/boomtrade/internal/models"
	gocache "github.com/patrickmn/go-cache"
)

const accountKey = "account"

// Cache holds session-scoped snapshots fetched from the gateway. Only the
// account snapshot is kept; quotes, positions and chains are point-in-time
// values owned by the caller.
type Cache struct {
	accounts *gocache.Cache
	ttl      time.Duration
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		accounts: gocache.New(ttl, ttl*2),
		ttl:      ttl,
	}
}

// GetAccount retrieves the cached account snapshot
func (c *Cache) GetAccount() (*models.Account, bool) {
	if val, found := c.accounts.Get(accountKey); found {
		if account, ok := val.(*models.Account); ok {
			return account, true
		}
	}
	return nil, false
}

// SetAccount replaces the cached account snapshot wholesale
func (c *Cache) SetAccount(account *models.Account) {
	c.accounts.Set(accountKey, account, c.ttl)
}

// Clear removes all cached data. Called on disconnect.
func (c *Cache) Clear() {
	c.accounts.Flush()
}

// Stats returns cache statistics
type Stats struct {
	ItemCount int
}

// GetStats returns current cache statistics
func (c *Cache) GetStats() Stats {
	return Stats{ItemCount: c.accounts.ItemCount()}
}

package link

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/marginalia/core"
	gocache "github.com/patrickmn/go-cache"
)

const defaultCacheTTL = 10 * time.Minute

// Cache memoizes link results keyed by a hash of the operation name and
// its serialized request. At most one entry exists per key. Flush the
// cache whenever the semantic backend or its credentials change, since
// cached results may embed that backend's judgment.
type Cache struct {
	backend *gocache.Cache
}

// NewCache creates a cache whose entries expire after ttl.
// Non-positive ttl falls back to 10 minutes.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{
		backend: gocache.New(ttl, 2*ttl),
	}
}

// key hashes the operation and serialized request into a fixed-size
// cache key. Requests that cannot serialize are never cached.
func (c *Cache) key(operation string, request any) (string, bool) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", false
	}

	h, err := blake2b.New(16, nil)
	if err != nil {
		return "", false
	}
	h.Write([]byte(operation))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil)), true
}

// GetLinks returns a previously cached result for the request.
func (c *Cache) GetLinks(operation string, request any) ([]core.Link, bool) {
	key, ok := c.key(operation, request)
	if !ok {
		return nil, false
	}
	value, found := c.backend.Get(key)
	if !found {
		return nil, false
	}
	links, ok := value.([]core.Link)
	return links, ok
}

// SetLinks stores a result for the request, replacing any prior entry.
func (c *Cache) SetLinks(operation string, request any, links []core.Link) {
	key, ok := c.key(operation, request)
	if !ok {
		return
	}
	c.backend.Set(key, links, gocache.DefaultExpiration)
}

// Flush drops every cached entry.
func (c *Cache) Flush() {
	c.backend.Flush()
}

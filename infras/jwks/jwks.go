// Package jwks resolves token verification keys from an identity provider's
// published JWKS endpoint, caching the key set on a time-to-live so the
// endpoint is not hit on every request.
package jwks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/rs/zerolog/log"

	"evotodo/config"
)

var (
	// ErrKeyResolution wraps every failure to obtain a key: unreachable
	// endpoint, malformed key set, or unusable key material.
	ErrKeyResolution = errors.New("key resolution failed")

	// ErrUnknownKeyID means the key set does not contain the requested key
	// identifier even after a forced refresh.
	ErrUnknownKeyID = errors.New("unknown key id")
)

const DefaultTTL = time.Hour

// Resolver supplies a verification key for a token's key identifier.
type Resolver interface {
	ResolveKey(ctx context.Context, kid string) (any, error)
}

// Cache is the process-wide key set cache. It is constructed once at start
// and shared by reference; the clock is injected so expiry is testable.
type Cache struct {
	url    string
	ttl    time.Duration
	now    func() time.Time
	client *http.Client

	mu        sync.Mutex
	keySet    jwk.Set
	fetchedAt time.Time
}

// New builds the resolver from application config.
func New(cfg *config.Config) Resolver {
	return NewCache(cfg.JWKSURL(), time.Duration(cfg.Auth.JWKSTTLSec)*time.Second, nil, nil)
}

func NewCache(url string, ttl time.Duration, now func() time.Time, client *http.Client) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if now == nil {
		now = time.Now
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &Cache{
		url:    url,
		ttl:    ttl,
		now:    now,
		client: client,
	}
}

// ResolveKey returns the public key for kid, fetching or refreshing the key
// set as needed. An identifier missing from a fresh key set forces one
// refresh before failing; a refresh already performed by a concurrent
// request is not repeated.
func (c *Cache) ResolveKey(ctx context.Context, kid string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	refreshed := false

	if c.keySet == nil || c.now().Sub(c.fetchedAt) >= c.ttl {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}

		refreshed = true
	}

	key, found := c.keySet.LookupKeyID(kid)
	if !found && !refreshed {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}

		key, found = c.keySet.LookupKeyID(kid)
	}

	if !found {
		return nil, fmt.Errorf("%w: %w: %q", ErrKeyResolution, ErrUnknownKeyID, kid)
	}

	var raw any
	if err := jwk.Export(key, &raw); err != nil {
		return nil, fmt.Errorf("%w: exporting key %q: %w", ErrKeyResolution, kid, err)
	}

	return raw, nil
}

// refresh must be called with the mutex held. On failure the previous key
// set, if any, stays in place.
func (c *Cache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %w", ErrKeyResolution, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetching %s: %w", ErrKeyResolution, c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: fetching %s: unexpected status %d", ErrKeyResolution, c.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading key set: %w", ErrKeyResolution, err)
	}

	keySet, err := jwk.Parse(body)
	if err != nil {
		return fmt.Errorf("%w: parsing key set: %w", ErrKeyResolution, err)
	}

	c.keySet = keySet
	c.fetchedAt = c.now()

	log.Debug().Str("url", c.url).Int("keys", keySet.Len()).Msg("refreshed JWKS key set")

	return nil
}

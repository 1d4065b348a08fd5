package jwks_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evotodo/infras/jwks"
)

type keyServer struct {
	server  *httptest.Server
	fetches atomic.Int64
	body    atomic.Value
}

func newKeyServer(t *testing.T, kids ...string) *keyServer {
	t.Helper()

	ks := &keyServer{}
	ks.setKeys(t, kids...)

	ks.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		ks.fetches.Add(1)

		body, _ := ks.body.Load().([]byte)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(ks.server.Close)

	return ks
}

// setKeys replaces the served key set with freshly generated RSA keys under
// the given key ids.
func (ks *keyServer) setKeys(t *testing.T, kids ...string) {
	t.Helper()

	keySet := jwk.NewSet()

	for _, kid := range kids {
		privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		key, err := jwk.Import(&privateKey.PublicKey)
		require.NoError(t, err)
		require.NoError(t, key.Set(jwk.KeyIDKey, kid))
		require.NoError(t, key.Set(jwk.AlgorithmKey, "RS256"))

		require.NoError(t, keySet.AddKey(key))
	}

	body, err := json.Marshal(keySet)
	require.NoError(t, err)

	ks.body.Store(body)
}

func TestCache_ResolvesKnownKey(t *testing.T) {
	ks := newKeyServer(t, "key-1")

	cache := jwks.NewCache(ks.server.URL, time.Hour, nil, nil)

	key, err := cache.ResolveKey(context.Background(), "key-1")
	require.NoError(t, err)

	_, ok := key.(*rsa.PublicKey)
	assert.True(t, ok, "exported key should be a raw RSA public key")
	assert.Equal(t, int64(1), ks.fetches.Load())
}

func TestCache_ServesFromCacheWithinTTL(t *testing.T) {
	ks := newKeyServer(t, "key-1")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	cache := jwks.NewCache(ks.server.URL, time.Hour, clock, nil)

	for range 5 {
		_, err := cache.ResolveKey(context.Background(), "key-1")
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), ks.fetches.Load())

	// Advancing past the TTL forces one refetch on the next resolution.
	now = now.Add(time.Hour + time.Second)

	_, err := cache.ResolveKey(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), ks.fetches.Load())
}

func TestCache_RefreshesOnceForUnknownKid(t *testing.T) {
	ks := newKeyServer(t, "key-1")

	cache := jwks.NewCache(ks.server.URL, time.Hour, nil, nil)

	_, err := cache.ResolveKey(context.Background(), "key-1")
	require.NoError(t, err)

	// The provider rotates to key-2. Resolving the unseen kid forces a
	// single refresh, picking the rotated set up without waiting for TTL.
	ks.setKeys(t, "key-1", "key-2")

	_, err = cache.ResolveKey(context.Background(), "key-2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), ks.fetches.Load())
}

func TestCache_UnknownKidAfterRefreshFails(t *testing.T) {
	ks := newKeyServer(t, "key-1")

	cache := jwks.NewCache(ks.server.URL, time.Hour, nil, nil)

	_, err := cache.ResolveKey(context.Background(), "key-1")
	require.NoError(t, err)

	_, err = cache.ResolveKey(context.Background(), "missing-kid")
	require.Error(t, err)
	assert.ErrorIs(t, err, jwks.ErrUnknownKeyID)
	assert.ErrorIs(t, err, jwks.ErrKeyResolution)

	// The initial fetch plus exactly one forced refresh.
	assert.Equal(t, int64(2), ks.fetches.Load())
}

func TestCache_FreshFetchNotRepeatedForUnknownKid(t *testing.T) {
	ks := newKeyServer(t, "key-1")

	cache := jwks.NewCache(ks.server.URL, time.Hour, nil, nil)

	// First resolution already fetched a fresh set; the unknown kid must
	// not trigger a second fetch in the same call.
	_, err := cache.ResolveKey(context.Background(), "missing-kid")
	require.Error(t, err)
	assert.ErrorIs(t, err, jwks.ErrUnknownKeyID)
	assert.Equal(t, int64(1), ks.fetches.Load())
}

func TestCache_UnreachableEndpoint(t *testing.T) {
	cache := jwks.NewCache("http://127.0.0.1:1/jwks", time.Hour, nil, nil)

	_, err := cache.ResolveKey(context.Background(), "key-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, jwks.ErrKeyResolution)
}

func TestCache_KeepsStaleSetWhenRefreshFails(t *testing.T) {
	ks := newKeyServer(t, "key-1")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	cache := jwks.NewCache(ks.server.URL, time.Hour, clock, nil)

	_, err := cache.ResolveKey(context.Background(), "key-1")
	require.NoError(t, err)

	ks.server.Close()
	now = now.Add(2 * time.Hour)

	// The refresh fails, the call errors, but the old set stays in place:
	// a later successful refresh is still possible.
	_, err = cache.ResolveKey(context.Background(), "key-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, jwks.ErrKeyResolution)
}

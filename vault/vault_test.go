package vault

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/revtext"
	"github.com/unkn0wn-root/revtext/internal/wire"
	pr "github.com/unkn0wn-root/revtext/provider"
	"github.com/unkn0wn-root/revtext/provider/bigcache"
)

type memProvider struct {
	mu     sync.Mutex
	m      map[string][]byte
	reject bool
	delErr error
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string][]byte)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reject {
		return false, nil
	}
	p.m[key] = append([]byte(nil), value...)
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.delErr != nil {
		return p.delErr
	}
	delete(p.m, key)
	return nil
}

func (p *memProvider) Close(context.Context) error { return nil }

type healHooks struct {
	revtext.NopHooks
	mu       sync.Mutex
	heals    map[string]string
	rejected []string
}

func (h *healHooks) SelfHeal(k, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.heals == nil {
		h.heals = map[string]string{}
	}
	h.heals[k] = reason
}

func (h *healHooks) ProviderSetRejected(k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejected = append(h.rejected, k)
}

func newTestVault(t *testing.T, p pr.Provider, key string, hooks revtext.Hooks) *Vault {
	t.Helper()
	v, err := New(Options{
		Namespace: "notes",
		Provider:  p,
		Codec:     revtext.MustNew(revtext.Options{Key: []byte(key)}),
		Hooks:     hooks,
	})
	require.NoError(t, err)
	return v
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	v := newTestVault(t, mp, "k", nil)

	require.NoError(t, v.Put(ctx, "greeting", []byte("Hello, world!"), 0))

	buf, ok, err := v.Get(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Hello, world!", buf.String())
	require.NoError(t, buf.Release())

	enc, ok, err := v.GetEncoded(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, ok)
	want, err := v.codec.EncodeString("Hello, world!")
	require.NoError(t, err)
	assert.Equal(t, want, enc)

	// the stored bytes are framed, not plaintext
	raw := mp.m["text:notes:greeting"]
	assert.NotContains(t, string(raw), "Hello")

	_, ok, err = v.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, v.Del(ctx, "greeting"))
	_, ok, _ = v.Get(ctx, "greeting")
	assert.False(t, ok)

	assert.Zero(t, v.codec.Stats().Live)
}

func TestSelfHealOnCorrupt(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	hooks := &healHooks{}
	v := newTestVault(t, mp, "k", hooks)

	sk := v.storageKey("bad")
	mp.m[sk] = []byte("not-a-frame")

	_, ok, err := v.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotContains(t, mp.m, sk)
	assert.Equal(t, "corrupt", hooks.heals[sk])
}

func TestSelfHealOnConfigMismatch(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	hooks := &healHooks{}
	writer := newTestVault(t, mp, "old-key", nil)
	reader := newTestVault(t, mp, "new-key", hooks)

	require.NoError(t, writer.Put(ctx, "x", []byte("secret"), 0))

	_, ok, err := reader.Get(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "config_mismatch", hooks.heals[reader.storageKey("x")])

	_, ok, _ = writer.Get(ctx, "x")
	assert.False(t, ok, "mismatched entry should have been deleted")
}

func TestSelfHealOnUndecodablePayload(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	hooks := &healHooks{}
	v := newTestVault(t, mp, "k", hooks)

	// right frame and fingerprint, payload outside the alphabet
	frame, err := wire.EncodeText(byte(v.codec.Alphabet()), v.codec.Fingerprint(), []byte("!!!!"))
	require.NoError(t, err)
	sk := v.storageKey("junk")
	mp.m[sk] = frame

	_, ok, err := v.Get(ctx, "junk")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "value_decode", hooks.heals[sk])
	assert.NotContains(t, mp.m, sk)
}

func TestSelfHealDeleteFailureStillMisses(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	mp.delErr = errors.New("backend down")
	v := newTestVault(t, mp, "k", nil)
	mp.m[v.storageKey("bad")] = []byte("garbage")

	_, ok, err := v.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutRejectedByProvider(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	mp.reject = true
	hooks := &healHooks{}
	v := newTestVault(t, mp, "k", hooks)

	require.NoError(t, v.Put(ctx, "x", []byte("y"), 0))
	assert.Equal(t, []string{"text:notes:x"}, hooks.rejected)
	assert.Zero(t, v.codec.Stats().Live)
}

func TestPutInvalidInput(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	v, err := New(Options{
		Namespace: "notes",
		Provider:  mp,
		Codec:     revtext.MustNew(revtext.Options{TextOnly: true}),
	})
	require.NoError(t, err)

	err = v.Put(ctx, "x", []byte("a\x00b"), 0)
	require.ErrorIs(t, err, revtext.ErrInvalidInput)
	assert.Empty(t, mp.m)
}

func TestNewValidation(t *testing.T) {
	c := revtext.MustNew(revtext.Options{})
	_, err := New(Options{Provider: newMemProvider(), Codec: c})
	assert.Error(t, err)
	_, err = New(Options{Namespace: "n", Codec: c})
	assert.Error(t, err)
	_, err = New(Options{Namespace: "n", Provider: newMemProvider()})
	assert.Error(t, err)
}

func TestVaultOverBigcache(t *testing.T) {
	ctx := context.Background()
	p, err := bigcache.New(ctx, bigcache.Config{LifeWindow: time.Minute, Shards: 16})
	require.NoError(t, err)
	v := newTestVault(t, p, "bc", nil)
	defer v.Close(ctx)

	for _, s := range []string{"", "a", "Hello, world!", "ünïcødé"} {
		require.NoError(t, v.Put(ctx, "k"+s, []byte(s), 0))
		buf, ok, err := v.Get(ctx, "k"+s)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, s, buf.String())
		require.NoError(t, buf.Release())
	}
	assert.Equal(t, 4, p.Len())
}

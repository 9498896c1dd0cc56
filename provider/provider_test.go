package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pr "github.com/unkn0wn-root/revtext/provider"
	"github.com/unkn0wn-root/revtext/provider/bigcache"
	"github.com/unkn0wn-root/revtext/provider/file"
	"github.com/unkn0wn-root/revtext/provider/ristretto"
)

func providers(t *testing.T) map[string]pr.Provider {
	t.Helper()
	ctx := context.Background()

	bcp, err := bigcache.New(ctx, bigcache.Config{LifeWindow: time.Minute, Shards: 16})
	require.NoError(t, err)

	rp, err := ristretto.New(ristretto.Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64, SyncWrites: true})
	require.NoError(t, err)

	fp, err := file.New(file.Config{Dir: t.TempDir()})
	require.NoError(t, err)

	return map[string]pr.Provider{"bigcache": bcp, "ristretto": rp, "file": fp}
}

func TestProvidersAreTransparent(t *testing.T) {
	ctx := context.Background()
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			defer p.Close(ctx)

			_, ok, err := p.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			value := []byte("RVTX\x01\x01\x01 binary \x00 ok")
			ok, err = p.Set(ctx, "k", value, int64(len(value)), 0)
			require.NoError(t, err)
			require.True(t, ok)

			got, ok, err := p.Get(ctx, "k")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, value, got)

			// overwrite
			ok, err = p.Set(ctx, "k", []byte("v2"), 2, 0)
			require.NoError(t, err)
			require.True(t, ok)
			got, _, _ = p.Get(ctx, "k")
			assert.Equal(t, []byte("v2"), got)

			require.NoError(t, p.Del(ctx, "k"))
			_, ok, err = p.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting a missing key is fine
			require.NoError(t, p.Del(ctx, "k"))
		})
	}
}

func TestRistrettoCopiesValue(t *testing.T) {
	ctx := context.Background()
	rp, err := ristretto.New(ristretto.Config{NumCounters: 100, MaxCost: 1 << 10, BufferItems: 64, SyncWrites: true})
	require.NoError(t, err)
	defer rp.Close(ctx)

	v := []byte("abc")
	ok, err := rp.Set(ctx, "k", v, 3, 0)
	require.NoError(t, err)
	require.True(t, ok)
	v[0] = 'X'

	got, ok, _ := rp.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), got)
}

func TestFileProviderLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p, err := file.New(file.Config{Dir: dir})
	require.NoError(t, err)

	assert.NotEqual(t, p.Path("a"), p.Path("b"))
	assert.Equal(t, p.Path("../../etc/passwd"), p.Path("../../etc/passwd"))
	assert.Contains(t, p.Path("../../etc/passwd"), dir)

	ok, err := p.Set(ctx, "k", []byte("v"), 1, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.FileExists(t, p.Path("k"))

	_, err = file.New(file.Config{})
	assert.Error(t, err)
}

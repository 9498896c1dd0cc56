package main

import (
	"context"
	"fmt"

	zaplog "github.com/unkn0wn-root/revtext/log/zap"
	"github.com/unkn0wn-root/revtext/provider"
	"github.com/unkn0wn-root/revtext/provider/file"
	"github.com/unkn0wn-root/revtext/provider/redis"
	"github.com/unkn0wn-root/revtext/vault"
)

// openProvider opens the store named by sc. Only stores that outlive the
// process are offered: put and get run as separate invocations.
func openProvider(ctx context.Context, sc storeConfig) (provider.Provider, error) {
	switch sc.Backend {
	case "file":
		return file.New(file.Config{Dir: sc.Dir})
	case "redis":
		return redis.Dial(ctx, sc.RedisAddr, "")
	}
	return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
}

func (a *app) openVault(ctx context.Context) (*vault.Vault, error) {
	p, err := openProvider(ctx, a.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store.Backend, err)
	}
	v, err := vault.New(vault.Options{
		Namespace:  a.cfg.Store.Namespace,
		Provider:   p,
		Codec:      a.codec,
		Logger:     zaplog.New(a.log),
		DefaultTTL: a.cfg.Store.TTL,
	})
	if err != nil {
		_ = p.Close(ctx)
		return nil, err
	}
	return v, nil
}

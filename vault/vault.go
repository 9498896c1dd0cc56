// Package vault persists encoded text in a provider and decodes it on read.
//
// Entries are framed with the codec's alphabet and fingerprint. A read that
// finds a corrupt frame, a frame written under a different key/alphabet, or a
// payload the codec refuses deletes the entry and reports a miss.
//
// Keys:
//
//	text:<ns>:<key>
package vault

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/revtext"
	"github.com/unkn0wn-root/revtext/internal/wire"
	pr "github.com/unkn0wn-root/revtext/provider"
)

type SetCostFunc func(storageKey string, frame []byte) int64

type Options struct {
	// Required
	Namespace string // logical namespace to avoid collisions. e.g. "notes", "tokens"
	Provider  pr.Provider
	Codec     *revtext.Codec

	Logger         revtext.Logger // if nil, NopLogger is used
	Hooks          revtext.Hooks  // if nil, NopHooks is used
	DefaultTTL     time.Duration  // 0 => no expiry
	ComputeSetCost SetCostFunc    // default len(frame)
}

type Vault struct {
	ns       string
	provider pr.Provider
	codec    *revtext.Codec
	log      revtext.Logger
	hooks    revtext.Hooks
	ttl      time.Duration
	cost     SetCostFunc
}

func New(opts Options) (*Vault, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("vault: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("vault: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("vault: namespace is required")
	}

	v := &Vault{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		log:      revtext.NopLogger{},
		hooks:    revtext.NopHooks{},
		ttl:      opts.DefaultTTL,
		cost:     func(_ string, frame []byte) int64 { return int64(len(frame)) },
	}
	if opts.Logger != nil {
		v.log = opts.Logger
	}
	if opts.Hooks != nil {
		v.hooks = opts.Hooks
	}
	if opts.ComputeSetCost != nil {
		v.cost = opts.ComputeSetCost
	}
	return v, nil
}

func (v *Vault) storageKey(key string) string { return "text:" + v.ns + ":" + key }

// Put encodes text and stores the framed result. ttl 0 uses DefaultTTL.
// A write the provider rejects under pressure is logged, not returned.
func (v *Vault) Put(ctx context.Context, key string, text []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = v.ttl
	}
	enc, err := v.codec.Encode(text)
	if err != nil {
		return err
	}
	defer enc.Release()

	frame, err := wire.EncodeText(byte(v.codec.Alphabet()), v.codec.Fingerprint(), enc.Bytes())
	if err != nil {
		return err
	}

	k := v.storageKey(key)
	ok, err := v.provider.Set(ctx, k, frame, v.cost(k, frame), ttl)
	if err != nil {
		return err
	}
	if !ok {
		v.hooks.ProviderSetRejected(k)
		v.log.Debug("Put rejected by provider (pressure)", revtext.Fields{"key": key})
	}
	return nil
}

// Get returns the decoded text for key. The Buffer is owned by the caller.
func (v *Vault) Get(ctx context.Context, key string) (*revtext.Buffer, bool, error) {
	k := v.storageKey(key)
	payload, ok, err := v.load(ctx, k)
	if err != nil || !ok {
		return nil, false, err
	}
	buf, err := v.codec.Decode(payload)
	if err != nil {
		v.heal(ctx, k, "value_decode")
		return nil, false, nil
	}
	return buf, true, nil
}

// GetEncoded returns the stored encoded text without decoding it.
func (v *Vault) GetEncoded(ctx context.Context, key string) (string, bool, error) {
	payload, ok, err := v.load(ctx, v.storageKey(key))
	if err != nil || !ok {
		return "", false, err
	}
	return string(payload), true, nil
}

func (v *Vault) load(ctx context.Context, k string) ([]byte, bool, error) {
	raw, ok, err := v.provider.Get(ctx, k)
	if err != nil || !ok {
		return nil, false, err
	}
	env, err := wire.DecodeText(raw)
	if err != nil {
		v.heal(ctx, k, "corrupt")
		return nil, false, nil
	}
	if env.Alphabet != byte(v.codec.Alphabet()) || env.Fingerprint != v.codec.Fingerprint() {
		v.heal(ctx, k, "config_mismatch")
		return nil, false, nil
	}
	return env.Payload, true, nil
}

func (v *Vault) heal(ctx context.Context, k, reason string) {
	v.hooks.SelfHeal(k, reason)
	if err := v.provider.Del(ctx, k); err != nil {
		v.log.Warn("self-heal delete failed", revtext.Fields{"key": k, "reason": reason, "err": err})
		return
	}
	v.log.Debug("dropped unreadable entry", revtext.Fields{"key": k, "reason": reason})
}

func (v *Vault) Del(ctx context.Context, key string) error {
	return v.provider.Del(ctx, v.storageKey(key))
}

func (v *Vault) Close(ctx context.Context) error {
	return v.provider.Close(ctx)
}

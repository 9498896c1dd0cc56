package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/revtext"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	RejectEvery   uint64
	SelfHealEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	rejectCtr   atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ revtext.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) InputRejected(op string, size int, reason string) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Debug("revtext.input_rejected",
		"op", op,
		"size", size,
		"reason", reason)
}

func (h *Hooks) AllocationFailed(op string, size int) {
	if h.l == nil {
		return
	}
	h.l.Warn("revtext.allocation_failed",
		"op", op,
		"size", size)
}

func (h *Hooks) OwnershipViolation(op, reason string) {
	if h.l == nil {
		return
	}
	h.l.Error("revtext.ownership_violation",
		"op", op,
		"reason", reason)
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Info("revtext.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("revtext.provider_set_rejected",
		"key", h.redact(storageKey))
}

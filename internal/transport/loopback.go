// Package transport provides an in-process drag-and-drop transport. A
// Loopback hands the payload of a drag to whichever Target it is aimed at,
// standing in for the windowing system's drag loop.
package transport

import (
	"io"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// Target is where a drag is released. Accept receives the dragged file paths
// and the effects the source allows, and answers the effect it performed.
type Target interface {
	Accept(paths []string, allowed types.Effect) (types.Effect, error)
}

// Loopback implements types.Transport. Each aim applies to one transfer;
// a transfer with no aimed target is cancelled.
type Loopback struct {
	mu     sync.Mutex
	target Target
	logger *slog.Logger
}

var _ types.Transport = (*Loopback)(nil)

// Option configures a Loopback.
type Option func(*Loopback)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loopback) {
		l.logger = logger
	}
}

// NewLoopback returns a Loopback with no target.
func NewLoopback(opts ...Option) *Loopback {
	l := &Loopback{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Aim sets the target of the next transfer.
func (l *Loopback) Aim(t Target) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = t
}

// BeginTransfer hands paths to the aimed target and returns its effect.
func (l *Loopback) BeginTransfer(paths []string, allowed types.Effect) (types.Effect, error) {
	l.mu.Lock()
	target := l.target
	l.target = nil
	l.mu.Unlock()

	if target == nil {
		target = CancelTarget{}
	}
	effect, err := target.Accept(paths, allowed)
	if err != nil {
		l.logger.Warn("drop target failed", "files", len(paths), "error", err)
		return types.EffectNone, err
	}
	if effect != types.EffectNone && !allowed.Has(effect) {
		l.logger.Debug("target chose a disallowed effect", "effect", effect.String())
		effect = types.EffectNone
	}
	l.logger.Debug("transfer handed over", "files", len(paths), "effect", effect.String())
	return effect, nil
}

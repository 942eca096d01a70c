// Package publisher emits audit events either synchronously or through a
// bounded buffer drained by a background goroutine. A full buffer drops the
// event: audit must never block or fail a user-facing operation.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	id "engage/pkg/domain"
	audit "engage/pkg/platform/audit"
)

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	inbox    chan audit.Event
	done     chan struct{}
	closeOne sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous mode with the given
// buffer capacity. A non-positive size keeps the publisher synchronous: an
// unbuffered inbox would drop nearly every event.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size <= 0 {
			return
		}
		p.inbox = make(chan audit.Event, size)
	}
}

// WithLogger attaches a logger for dropped-event diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		go p.drain()
	}
	return p
}

// Emit records an event. Missing IDs and timestamps are filled in here so
// call sites stay small.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event",
			"action", string(event.Action), "signup_id", event.SignupID.String())
	}
	return nil
}

// List exposes the underlying store for handlers that surface audit trails.
func (p *Publisher) List(ctx context.Context, signupID id.SignupID) ([]audit.Event, error) {
	return p.store.ListBySignup(ctx, signupID)
}

// Close drains buffered events and stops the background goroutine. Safe to
// call more than once.
func (p *Publisher) Close() {
	p.closeOne.Do(func() {
		if p.inbox == nil {
			close(p.done)
			return
		}
		close(p.inbox)
		<-p.done
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Warn("audit append failed",
				"action", string(event.Action), "error", err)
		}
	}
}

package usecase_deck

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/humanbelnik/moviemingle/internal/model"
)

// Registry keeps the live deck of every session token.
type Registry struct {
	catalog  Catalog
	likes    LikesStore
	identity Identity
	opts     []Option
	logger   *slog.Logger

	mu    sync.RWMutex
	decks map[model.SessionToken]*Deck
}

func NewRegistry(
	catalog Catalog,
	likes LikesStore,
	identity Identity,
	opts ...Option,
) *Registry {
	return &Registry{
		catalog:  catalog,
		likes:    likes,
		identity: identity,
		opts:     opts,
		logger:   slog.Default(),
		decks:    make(map[model.SessionToken]*Deck),
	}
}

// Open starts a fresh deck for the token, replacing any previous one.
// A deck that fails to initialize is not kept.
func (r *Registry) Open(ctx context.Context, token model.SessionToken) (*Deck, error) {
	d := New(token, r.catalog, r.likes, r.identity, r.opts...)

	r.mu.Lock()
	old := r.decks[token]
	r.decks[token] = d
	r.mu.Unlock()

	if old != nil {
		old.discard()
	}

	if err := d.Initialize(ctx); err != nil {
		r.remove(token, d)
		return d, err
	}

	return d, nil
}

func (r *Registry) Get(token model.SessionToken) (*Deck, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.decks[token]
	return d, ok
}

// Logout signs the token out, through its deck when one is open.
func (r *Registry) Logout(ctx context.Context, token model.SessionToken) error {
	r.mu.Lock()
	d, ok := r.decks[token]
	delete(r.decks, token)
	r.mu.Unlock()

	if !ok {
		return r.identity.SignOut(ctx, token)
	}
	return d.Logout(ctx)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.decks)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(ctx); n > 0 {
				r.logger.Info("evicted stale decks", slog.Int("count", n), slog.Int("open", r.Len()))
			}
		}
	}
}

// Sweep discards decks whose token no longer resolves to a user and returns
// how many were evicted. Decks whose lookup fails are kept.
func (r *Registry) Sweep(ctx context.Context) int {
	r.mu.RLock()
	open := make(map[model.SessionToken]*Deck, len(r.decks))
	for token, d := range r.decks {
		open[token] = d
	}
	r.mu.RUnlock()

	evicted := 0
	for token, d := range open {
		user, err := r.identity.CurrentUser(ctx, token)
		if err != nil {
			r.logger.Warn("failed to check deck session", slog.String("error", err.Error()))
			continue
		}
		if user != nil {
			continue
		}

		if r.remove(token, d) {
			d.discard()
			evicted++
		}
	}
	return evicted
}

func (r *Registry) remove(token model.SessionToken, d *Deck) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.decks[token] != d {
		return false
	}
	delete(r.decks, token)
	return true
}

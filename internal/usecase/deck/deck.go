package usecase_deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviemingle/internal/model"
)

var (
	ErrUnauthenticated   = errors.New("no authenticated user")
	ErrBusy              = errors.New("deck is loading")
	ErrInvalidTransition = errors.New("invalid deck transition")
	ErrClosed            = errors.New("deck session closed")
	ErrFirstPage         = errors.New("failed to load first page")
	ErrNextPage          = errors.New("failed to load next page")
	ErrGenrePage         = errors.New("failed to load genre page")
	ErrIdentity          = errors.New("failed to resolve user")
)

type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseSwiping      Phase = "swiping"
	PhaseReviewing    Phase = "reviewing"
	PhaseEmpty        Phase = "empty"
	PhaseFailed       Phase = "failed"
	PhaseClosed       Phase = "closed"
)

// Consecutive empty pages skipped by a single advance before giving up and
// switching to review.
const maxEmptyPages = 10

//go:generate mockery --name=Catalog --output=./mocks/catalog --filename=catalog.go
type Catalog interface {
	FetchPage(ctx context.Context, page int, genre *model.GenreID) (model.Page, error)
}

// LikesStore persists like decisions. RecordLike is invoked fire-and-forget:
// the deck never waits for it before moving on and only logs its failures,
// so a returned nil is the only durability signal and nobody observes it.
//
//go:generate mockery --name=LikesStore --output=./mocks/likes --filename=likes.go
type LikesStore interface {
	RecordLike(ctx context.Context, userID uuid.UUID, providerID int64, title string) error
	ListLikedMovieIDs(ctx context.Context, userID uuid.UUID) (model.LikedSet, error)
}

//go:generate mockery --name=Identity --output=./mocks/identity --filename=identity.go
type Identity interface {
	CurrentUser(ctx context.Context, token model.SessionToken) (*model.User, error)
	SignOut(ctx context.Context, token model.SessionToken) error
}

// Notifier receives snapshots in increasing Version order. Snapshots that
// lose the race to a newer one are not delivered. DeckChanged must not call
// back into the deck.
type Notifier interface {
	DeckChanged(token model.SessionToken, s Snapshot)
}

// snapshotSeq versions snapshots across all decks, so a replaced deck never
// outranks its successor for the same token.
var snapshotSeq atomic.Uint64

type Snapshot struct {
	Phase      Phase
	Current    *model.Movie
	Cursor     int
	DeckSize   int
	Page       int
	TotalPages int
	Genre      *model.GenreID
	Matches    []model.Movie
	Loading    bool

	// NoMovies is set when the last listing fetched has no movies at all,
	// as opposed to a card still loading.
	NoMovies bool
	Version  uint64
}

// sessionState is owned by exactly one Deck and only mutated under its mutex.
type sessionState struct {
	user       *model.User
	deck       []model.Movie
	cursor     int
	page       int
	totalPages int
	genre      *model.GenreID
	matches    []model.Movie
	phase      Phase
	noMovies   bool
}

// Deck is the swipe session of one signed-in user.
//
// Boundary calls (identity, catalog, likes) run without the lock held.
// While a page fetch is pending the deck refuses Like, Pass and ChangeGenre
// with ErrBusy. Results arriving after Logout are dropped.
type Deck struct {
	token    model.SessionToken
	catalog  Catalog
	likes    LikesStore
	identity Identity
	notifier Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	st         sessionState
	inFlight   bool
	generation uint64
	version    uint64

	notifyMu  sync.Mutex
	published uint64

	writes sync.WaitGroup
}

type Option func(*Deck)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Deck) {
		d.logger = logger
	}
}

func WithNotifier(n Notifier) Option {
	return func(d *Deck) {
		d.notifier = n
	}
}

func New(
	token model.SessionToken,
	catalog Catalog,
	likes LikesStore,
	identity Identity,
	opts ...Option,
) *Deck {
	d := &Deck{
		token:    token,
		catalog:  catalog,
		likes:    likes,
		identity: identity,
		logger:   slog.Default(),
		st:       sessionState{phase: PhaseInitializing},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Initialize resolves the user, loads the first unfiltered page and seeds
// matches with the movies of that page the user already liked. Older likes
// that are not on the first page are not rehydrated.
func (d *Deck) Initialize(ctx context.Context) error {
	d.mu.Lock()
	if d.st.phase != PhaseInitializing || d.inFlight {
		d.mu.Unlock()
		return ErrInvalidTransition
	}
	d.inFlight = true
	gen := d.generation
	d.unlockAndNotify()

	user, err := d.identity.CurrentUser(ctx, d.token)
	if err != nil {
		d.terminate(gen, PhaseFailed)
		return fmt.Errorf("%w: %w", ErrIdentity, err)
	}
	if user == nil {
		d.terminate(gen, PhaseClosed)
		return ErrUnauthenticated
	}

	page, err := d.catalog.FetchPage(ctx, 1, nil)
	if err != nil {
		d.terminate(gen, PhaseFailed)
		return fmt.Errorf("%w: %w", ErrFirstPage, err)
	}

	liked, err := d.likes.ListLikedMovieIDs(ctx, user.ID)
	if err != nil {
		d.logger.Warn("failed to load existing likes",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()),
		)
		liked = nil
	}

	matches := make([]model.Movie, 0)
	for _, m := range page.Movies {
		if _, ok := liked[m.ProviderID]; ok {
			matches = append(matches, m)
		}
	}

	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return ErrClosed
	}
	d.inFlight = false
	d.st = sessionState{
		user:       user,
		deck:       page.Movies,
		cursor:     0,
		page:       1,
		totalPages: page.TotalPages,
		matches:    matches,
		phase:      PhaseSwiping,
	}
	if len(page.Movies) == 0 {
		d.st.phase = PhaseEmpty
		d.st.noMovies = true
	}
	d.unlockAndNotify()

	return nil
}

// Like records the current card for the user without waiting for the store,
// appends it to matches and advances. Without a current card it does nothing.
func (d *Deck) Like(ctx context.Context) error {
	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		return ErrBusy
	}

	current, ok := d.currentLocked()
	if !ok {
		d.mu.Unlock()
		return nil
	}

	if d.st.user != nil {
		d.recordLike(ctx, d.st.user.ID, current)
	}
	d.st.matches = append(d.st.matches, current)

	return d.advanceLocked(ctx)
}

// Pass advances without touching the likes store.
func (d *Deck) Pass(ctx context.Context) error {
	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		return ErrBusy
	}

	if _, ok := d.currentLocked(); !ok {
		d.mu.Unlock()
		return nil
	}

	return d.advanceLocked(ctx)
}

// ChangeGenre restarts pagination from page 1 with the given filter (nil for
// all genres). Matches and the phase are kept.
func (d *Deck) ChangeGenre(ctx context.Context, genre *model.GenreID) error {
	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		return ErrBusy
	}
	if d.st.phase != PhaseSwiping && d.st.phase != PhaseReviewing {
		d.mu.Unlock()
		return ErrInvalidTransition
	}

	if genre != nil {
		g := *genre
		genre = &g
	}
	d.st.genre = genre
	d.st.deck = nil
	d.st.cursor = 0
	d.st.page = 1
	d.st.noMovies = false
	d.inFlight = true
	gen := d.generation
	d.unlockAndNotify()

	page, err := d.catalog.FetchPage(ctx, 1, genre)

	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return ErrClosed
	}
	d.inFlight = false
	if err != nil {
		d.unlockAndNotify()
		return fmt.Errorf("%w: %w", ErrGenrePage, err)
	}
	d.st.deck = page.Movies
	d.st.totalPages = page.TotalPages
	d.st.noMovies = len(page.Movies) == 0
	d.unlockAndNotify()

	return nil
}

// Restart leaves review mode and replays the current deck from its first
// card. Pagination state is not reset.
func (d *Deck) Restart() error {
	d.mu.Lock()
	if d.st.phase != PhaseReviewing {
		d.mu.Unlock()
		return ErrInvalidTransition
	}
	d.st.phase = PhaseSwiping
	d.st.cursor = 0
	d.unlockAndNotify()

	return nil
}

// Logout signs the session out and discards all deck state. Pending page
// fetches complete into nothing.
func (d *Deck) Logout(ctx context.Context) error {
	err := d.identity.SignOut(ctx, d.token)
	d.discard()
	return err
}

func (d *Deck) State() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Wait blocks until every like write spawned so far has finished.
func (d *Deck) Wait() {
	d.writes.Wait()
}

func (d *Deck) discard() {
	d.mu.Lock()
	if d.st.phase == PhaseClosed && !d.inFlight {
		d.mu.Unlock()
		return
	}
	d.generation++
	d.inFlight = false
	d.st = sessionState{phase: PhaseClosed}
	d.unlockAndNotify()
}

// advanceLocked must be called with d.mu held and always releases it.
func (d *Deck) advanceLocked(ctx context.Context) error {
	if d.st.cursor+1 < len(d.st.deck) {
		d.st.cursor++
		d.unlockAndNotify()
		return nil
	}

	if d.st.page >= d.st.totalPages {
		d.st.phase = PhaseReviewing
		d.unlockAndNotify()
		return nil
	}

	d.inFlight = true
	gen := d.generation
	page := d.st.page
	genre := d.st.genre
	d.unlockAndNotify()

	var (
		next model.Page
		err  error
	)
	for skipped := 0; ; skipped++ {
		page++
		next, err = d.catalog.FetchPage(ctx, page, genre)
		if err != nil || len(next.Movies) > 0 || page >= next.TotalPages || skipped >= maxEmptyPages {
			break
		}
		d.logger.Debug("skipping empty catalog page", slog.Int("page", page))
	}

	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return ErrClosed
	}
	d.inFlight = false

	if err != nil {
		d.unlockAndNotify()
		return fmt.Errorf("%w: %w", ErrNextPage, err)
	}

	d.st.page = page
	d.st.totalPages = next.TotalPages
	if len(next.Movies) == 0 {
		d.st.phase = PhaseReviewing
		d.unlockAndNotify()
		return nil
	}

	d.st.deck = next.Movies
	d.st.cursor = 0
	d.unlockAndNotify()

	return nil
}

func (d *Deck) recordLike(ctx context.Context, userID uuid.UUID, m model.Movie) {
	ctx = context.WithoutCancel(ctx)

	d.writes.Add(1)
	go func() {
		defer d.writes.Done()

		if err := d.likes.RecordLike(ctx, userID, m.ProviderID, m.Title); err != nil {
			d.logger.Error("failed to record like",
				slog.String("user_id", userID.String()),
				slog.Int64("tmdb_id", m.ProviderID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

func (d *Deck) currentLocked() (model.Movie, bool) {
	if d.st.phase != PhaseSwiping {
		return model.Movie{}, false
	}
	if d.st.cursor < 0 || d.st.cursor >= len(d.st.deck) {
		return model.Movie{}, false
	}
	return d.st.deck[d.st.cursor], true
}

func (d *Deck) terminate(gen uint64, phase Phase) {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return
	}
	d.inFlight = false
	d.st = sessionState{phase: phase}
	d.unlockAndNotify()
}

func (d *Deck) snapshotLocked() Snapshot {
	s := Snapshot{
		Phase:      d.st.phase,
		Cursor:     d.st.cursor,
		DeckSize:   len(d.st.deck),
		Page:       d.st.page,
		TotalPages: d.st.totalPages,
		Matches:    append([]model.Movie{}, d.st.matches...),
		Loading:    d.inFlight,
		NoMovies:   d.st.noMovies,
		Version:    d.version,
	}
	if current, ok := d.currentLocked(); ok {
		s.Current = &current
	}
	if d.st.genre != nil {
		g := *d.st.genre
		s.Genre = &g
	}
	return s
}

func (d *Deck) unlockAndNotify() {
	d.version = snapshotSeq.Add(1)
	s := d.snapshotLocked()
	d.mu.Unlock()

	d.publish(s)
}

// publish delivers s unless a newer snapshot already went out.
func (d *Deck) publish(s Snapshot) {
	if d.notifier == nil {
		return
	}

	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()

	if s.Version <= d.published {
		return
	}
	d.published = s.Version
	d.notifier.DeckChanged(d.token, s)
}

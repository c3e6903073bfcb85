package usecase_catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/humanbelnik/moviemingle/internal/model"
	"golang.org/x/sync/singleflight"
)

var (
	ErrMisconfigured       = errors.New("catalog provider is not configured")
	ErrUpstreamUnavailable = errors.New("catalog provider unavailable")
	ErrMalformedUpstream   = errors.New("malformed catalog entry")
	ErrInvalidInput        = errors.New("invalid input")
)

const releaseDateLayout = "2006-01-02"

//go:generate mockery --name=Provider --output=./mocks/provider --filename=provider.go
type Provider interface {
	Popular(ctx context.Context, page int) (model.ProviderPage, error)
	Discover(ctx context.Context, page int, genre model.GenreID) (model.ProviderPage, error)
	Genres(ctx context.Context) ([]model.Genre, error)
}

// Cache is a best effort byte cache. A miss is reported as (nil, nil).
//
//go:generate mockery --name=Cache --output=./mocks/cache --filename=cache.go
type Cache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
}

type Usecase struct {
	provider     Provider
	cache        Cache
	imageBaseURL string
	pageTTL      time.Duration
	genresTTL    time.Duration

	flight singleflight.Group
	logger *slog.Logger
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

// WithCache enables response caching. Without it every call reaches the provider.
func WithCache(cache Cache, pageTTL, genresTTL time.Duration) Option {
	return func(u *Usecase) {
		u.cache = cache
		u.pageTTL = pageTTL
		u.genresTTL = genresTTL
	}
}

func New(
	provider Provider,
	imageBaseURL string,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		provider:     provider,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		pageTTL:      time.Hour,
		genresTTL:    24 * time.Hour,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// FetchPage returns one normalized page of the popular listing, or of the
// popularity sorted discovery listing when genre is set.
func (u *Usecase) FetchPage(ctx context.Context, page int, genre *model.GenreID) (model.Page, error) {
	if page < 1 {
		return model.Page{}, fmt.Errorf("%w: page must be positive", ErrInvalidInput)
	}

	key := pageKey(page, genre)
	if cached, ok := u.cachedPage(key); ok {
		return cached, nil
	}

	v, err := u.shared(ctx, key, func(ctx context.Context) (any, error) {
		var (
			raw model.ProviderPage
			err error
		)
		if genre == nil {
			raw, err = u.provider.Popular(ctx, page)
		} else {
			raw, err = u.provider.Discover(ctx, page, *genre)
		}
		if err != nil {
			return nil, err
		}

		p := u.normalize(raw, page)
		u.storePage(key, p)
		return p, nil
	})
	if err != nil {
		return model.Page{}, err
	}

	return v.(model.Page), nil
}

func (u *Usecase) FetchGenres(ctx context.Context) ([]model.Genre, error) {
	const key = "catalog:genres"

	if u.cache != nil {
		if data, err := u.cache.Get(key); err != nil {
			u.logger.Warn("genre cache read failed", slog.String("error", err.Error()))
		} else if data != nil {
			var genres []model.Genre
			if err := json.Unmarshal(data, &genres); err == nil {
				return genres, nil
			}
		}
	}

	v, err := u.shared(ctx, key, func(ctx context.Context) (any, error) {
		genres, err := u.provider.Genres(ctx)
		if err != nil {
			return nil, err
		}
		if genres == nil {
			genres = []model.Genre{}
		}

		if u.cache != nil {
			data, _ := json.Marshal(genres)
			if err := u.cache.Set(key, data, u.genresTTL); err != nil {
				u.logger.Warn("genre cache write failed", slog.String("error", err.Error()))
			}
		}
		return genres, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]model.Genre), nil
}

// shared collapses concurrent calls for key into one. The call itself is
// detached from the callers' cancellation and bounded by the provider's own
// timeout; each caller stops waiting when its ctx is done.
func (u *Usecase) shared(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := u.flight.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (u *Usecase) normalize(raw model.ProviderPage, requested int) model.Page {
	movies := make([]model.Movie, 0, len(raw.Results))
	for _, pm := range raw.Results {
		if pm.PosterPath == "" {
			continue
		}

		m, err := u.normalizeMovie(pm)
		if err != nil {
			u.logger.Debug("skipping catalog entry",
				slog.Int64("tmdb_id", pm.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		movies = append(movies, m)
	}

	totalPages := raw.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}

	return model.Page{
		Movies:      movies,
		TotalPages:  totalPages,
		CurrentPage: requested,
	}
}

func (u *Usecase) normalizeMovie(pm model.ProviderMovie) (model.Movie, error) {
	released, err := time.Parse(releaseDateLayout, pm.ReleaseDate)
	if err != nil {
		return model.Movie{}, fmt.Errorf("%w: release date %q", ErrMalformedUpstream, pm.ReleaseDate)
	}

	return model.Movie{
		ID:          model.MovieIDFromProvider(pm.ID),
		Title:       pm.Title,
		Year:        released.Year(),
		Rating:      RoundRating(pm.VoteAverage),
		Genre:       model.PlaceholderGenre,
		Description: pm.Overview,
		ImageURL:    u.imageBaseURL + pm.PosterPath,
		ProviderID:  pm.ID,
	}, nil
}

// RoundRating keeps one decimal of a 0-10 score.
func RoundRating(x float64) float64 {
	r := math.Round(x*10) / 10
	return math.Min(10, math.Max(0, r))
}

type cachedPageDTO struct {
	Movies      []model.Movie `json:"movies"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

func (u *Usecase) cachedPage(key string) (model.Page, bool) {
	if u.cache == nil {
		return model.Page{}, false
	}

	data, err := u.cache.Get(key)
	if err != nil {
		u.logger.Warn("page cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return model.Page{}, false
	}
	if data == nil {
		return model.Page{}, false
	}

	var dto cachedPageDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return model.Page{}, false
	}
	return model.Page(dto), true
}

func (u *Usecase) storePage(key string, p model.Page) {
	if u.cache == nil {
		return
	}

	data, err := json.Marshal(cachedPageDTO(p))
	if err != nil {
		return
	}
	if err := u.cache.Set(key, data, u.pageTTL); err != nil {
		u.logger.Warn("page cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func pageKey(page int, genre *model.GenreID) string {
	if genre == nil {
		return fmt.Sprintf("catalog:page:all:%d", page)
	}
	return fmt.Sprintf("catalog:page:%d:%d", *genre, page)
}

package infra_tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/humanbelnik/moviemingle/internal/model"
	usecase_catalog "github.com/humanbelnik/moviemingle/internal/usecase/catalog"
)

const language = "en-US"

// Client talks to the TMDB v3 REST API with an api_key query parameter.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(apiKey, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type movieDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
	PosterPath  *string `json:"poster_path"`
	GenreIDs    []int   `json:"genre_ids"`
}

type pageDTO struct {
	Page       int        `json:"page"`
	Results    []movieDTO `json:"results"`
	TotalPages int        `json:"total_pages"`
}

type genresDTO struct {
	Genres []model.Genre `json:"genres"`
}

func (c *Client) Popular(ctx context.Context, page int) (model.ProviderPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var dto pageDTO
	if err := c.get(ctx, "/movie/popular", q, &dto); err != nil {
		return model.ProviderPage{}, err
	}
	return dto.toModel(), nil
}

func (c *Client) Discover(ctx context.Context, page int, genre model.GenreID) (model.ProviderPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("with_genres", strconv.Itoa(genre))
	q.Set("sort_by", "popularity.desc")

	var dto pageDTO
	if err := c.get(ctx, "/discover/movie", q, &dto); err != nil {
		return model.ProviderPage{}, err
	}
	return dto.toModel(), nil
}

func (c *Client) Genres(ctx context.Context) ([]model.Genre, error) {
	var dto genresDTO
	if err := c.get(ctx, "/genre/movie/list", url.Values{}, &dto); err != nil {
		return nil, err
	}
	if dto.Genres == nil {
		return []model.Genre{}, nil
	}
	return dto.Genres, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.apiKey == "" {
		return usecase_catalog.ErrMisconfigured
	}

	q.Set("api_key", c.apiKey)
	q.Set("language", language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", usecase_catalog.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", usecase_catalog.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("tmdb request failed",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("%w: status %d", usecase_catalog.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", usecase_catalog.ErrUpstreamUnavailable, path, err)
	}
	return nil
}

func (p pageDTO) toModel() model.ProviderPage {
	results := make([]model.ProviderMovie, 0, len(p.Results))
	for _, m := range p.Results {
		pm := model.ProviderMovie{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
			Overview:    m.Overview,
			GenreIDs:    m.GenreIDs,
		}
		if m.PosterPath != nil {
			pm.PosterPath = *m.PosterPath
		}
		results = append(results, pm)
	}

	return model.ProviderPage{
		Results:    results,
		Page:       p.Page,
		TotalPages: p.TotalPages,
	}
}

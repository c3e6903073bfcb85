package http_common

import (
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviemingle/internal/model"
	usecase_deck "github.com/humanbelnik/moviemingle/internal/usecase/deck"
)

type MovieDTO struct {
	ID          string  `json:"id" example:"tmdb_603"`
	Title       string  `json:"title" example:"The Matrix"`
	Year        int     `json:"year" example:"1999"`
	Rating      float64 `json:"rating" example:"8.2"`
	Genre       string  `json:"genre" example:"Movie"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url" example:"https://image.tmdb.org/t/p/w500/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg"`
	TMDBID      int64   `json:"tmdb_id" example:"603"`
}

type SnapshotDTO struct {
	Phase      usecase_deck.Phase `json:"phase"`
	Current    *MovieDTO          `json:"current"`
	Cursor     int                `json:"cursor"`
	DeckSize   int                `json:"deck_size"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	Genre      *model.GenreID     `json:"genre"`
	Matches    []MovieDTO         `json:"matches"`
	Loading    bool               `json:"loading"`
	NoMovies   bool               `json:"no_movies"`
	Version    uint64             `json:"version"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

func ToMovieDTO(m model.Movie) MovieDTO {
	return MovieDTO{
		ID:          m.ID,
		Title:       m.Title,
		Year:        m.Year,
		Rating:      m.Rating,
		Genre:       m.Genre,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		TMDBID:      m.ProviderID,
	}
}

func ToMovieDTOs(ms []model.Movie) []MovieDTO {
	dtos := make([]MovieDTO, 0, len(ms))
	for _, m := range ms {
		dtos = append(dtos, ToMovieDTO(m))
	}
	return dtos
}

func ToSnapshotDTO(s usecase_deck.Snapshot) SnapshotDTO {
	dto := SnapshotDTO{
		Phase:      s.Phase,
		Cursor:     s.Cursor,
		DeckSize:   s.DeckSize,
		Page:       s.Page,
		TotalPages: s.TotalPages,
		Genre:      s.Genre,
		Matches:    ToMovieDTOs(s.Matches),
		Loading:    s.Loading,
		NoMovies:   s.NoMovies,
		Version:    s.Version,
	}
	if s.Current != nil {
		current := ToMovieDTO(*s.Current)
		dto.Current = &current
	}
	return dto
}

func ToUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
	}
}

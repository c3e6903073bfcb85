package model

import "fmt"

// GenreID is the catalog provider's genre identifier.
type GenreID = int

const PlaceholderGenre = "Movie"

type Movie struct {
	ID          string
	Title       string
	Year        int
	Rating      float64
	Genre       string
	Description string
	ImageURL    string

	// ProviderID is the catalog's own id. It is the only movie field
	// persisted into a like record.
	ProviderID int64
}

func MovieIDFromProvider(providerID int64) string {
	return fmt.Sprintf("tmdb_%d", providerID)
}

// ProviderMovie is one listing entry as the catalog provider returns it.
type ProviderMovie struct {
	ID          int64
	Title       string
	ReleaseDate string
	VoteAverage float64
	Overview    string
	PosterPath  string
	GenreIDs    []int
}

type ProviderPage struct {
	Results    []ProviderMovie
	Page       int
	TotalPages int
}

type Page struct {
	Movies      []Movie
	TotalPages  int
	CurrentPage int
}

type Genre struct {
	ID   GenreID `json:"id"`
	Name string  `json:"name"`
}

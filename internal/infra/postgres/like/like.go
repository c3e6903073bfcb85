package infra_postgres_like

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviemingle/internal/model"
	"github.com/jmoiron/sqlx"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type likeDTO struct {
	UserID     uuid.UUID `db:"user_id"`
	TMDBID     int64     `db:"tmdb_id"`
	MovieTitle string    `db:"movie_title"`
	CreatedAt  time.Time `db:"created_at"`
}

// Insert stores a like. A repeated like of the same movie is ignored.
func (d *Driver) Insert(ctx context.Context, rec model.LikeRecord) error {
	query := `
		INSERT INTO likes (id, user_id, tmdb_id, movie_title)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, tmdb_id) DO NOTHING
	`

	_, err := d.db.ExecContext(ctx, query, uuid.New(), rec.UserID, rec.ProviderID, rec.Title)
	return err
}

func (d *Driver) LikedIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	var ids []int64

	query := `SELECT tmdb_id FROM likes WHERE user_id = $1`

	if err := d.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, err
	}
	return ids, nil
}

func (d *Driver) List(ctx context.Context, userID uuid.UUID) ([]model.LikeRecord, error) {
	var rows []likeDTO

	query := `
		SELECT user_id, tmdb_id, movie_title, created_at
		FROM likes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	if err := d.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	records := make([]model.LikeRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.LikeRecord{
			UserID:     r.UserID,
			ProviderID: r.TMDBID,
			Title:      r.MovieTitle,
			CreatedAt:  r.CreatedAt,
		})
	}
	return records, nil
}

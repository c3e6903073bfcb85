package usecase_like

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/humanbelnik/moviemingle/internal/model"
)

var (
	ErrStoreWriteFailure = errors.New("unable to store like")
	ErrStoreReadFailure  = errors.New("unable to load likes")
	ErrInvalidInput      = errors.New("invalid input")
)

//go:generate mockery --name=Repository --output=./mocks/repository --filename=repository.go
type Repository interface {
	Insert(ctx context.Context, rec model.LikeRecord) error
	LikedIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.LikeRecord, error)
}

type Usecase struct {
	repository Repository
}

func New(
	r Repository,
) *Usecase {
	return &Usecase{
		repository: r,
	}
}

// RecordLike stores one like. Liking the same movie twice is not an error.
func (u *Usecase) RecordLike(ctx context.Context, userID uuid.UUID, providerID int64, title string) error {
	if userID == uuid.Nil || providerID <= 0 {
		return fmt.Errorf("%w: %w", ErrStoreWriteFailure, ErrInvalidInput)
	}

	rec := model.LikeRecord{
		UserID:     userID,
		ProviderID: providerID,
		Title:      title,
	}
	if err := u.repository.Insert(ctx, rec); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWriteFailure, err)
	}

	return nil
}

func (u *Usecase) ListLikedMovieIDs(ctx context.Context, userID uuid.UUID) (model.LikedSet, error) {
	ids, err := u.repository.LikedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreReadFailure, err)
	}

	liked := make(model.LikedSet, len(ids))
	for _, id := range ids {
		liked[id] = struct{}{}
	}
	return liked, nil
}

// List returns the user's likes, newest first.
func (u *Usecase) List(ctx context.Context, userID uuid.UUID) ([]model.LikeRecord, error) {
	records, err := u.repository.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreReadFailure, err)
	}
	if records == nil {
		records = []model.LikeRecord{}
	}

	return records, nil
}

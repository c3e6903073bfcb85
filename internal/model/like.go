package model

import (
	"time"

	"github.com/google/uuid"
)

type LikeRecord struct {
	UserID     uuid.UUID
	ProviderID int64
	Title      string
	CreatedAt  time.Time
}

type LikedSet = map[int64]struct{}

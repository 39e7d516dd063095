package model

import "time"

// LikeRef identifies a likeable entity. Type scopes ID to a namespace such
// as "technology" or "trend".
type LikeRef struct {
	ID   int64  `json:"referenceId"`
	Type string `json:"referenceType"`
}

type Like struct {
	UserID    int64     `json:"userId"`
	Ref       LikeRef   `json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
}

type LikeState string

const (
	LikeStateLiked   LikeState = "liked"
	LikeStateUnliked LikeState = "unliked"
)

type LikeCount struct {
	Count int64 `json:"count"`
}

type LikeStatus struct {
	IsLiked bool `json:"isLiked"`
}

type LikeToggleResult struct {
	Status  LikeState `json:"status"`
	Count   int64     `json:"count"`
	Message string    `json:"message"`
}

package domain

import "time"

// Like represents a many-to-many relationship between a User and a Tweet,
// stored as an explicit edge row with a composite unique key.
type Like struct {
	ID      int  `json:"id"`
	UserID  int  `json:"user_id" gorm:"notNull;uniqueIndex:idx_like_edge"`
	User    User `json:"-"`
	TweetID int  `json:"tweet_id" gorm:"notNull;uniqueIndex:idx_like_edge"`

	CreatedAt time.Time `json:"created_at"`
}

// LikeSummary is the reduced like shape embedded in feed responses.
type LikeSummary struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
// Create and Delete are idempotent in the same way FollowService is.
type LikeService interface {
	Create(like *Like) error
	Delete(like *Like) error
}

package domain

import (
	"time"
)

type Tweet struct {
	ID       int    `json:"id"`
	AuthorID int    `json:"author_id" gorm:"notNull;index"`
	Author   User   `json:"author"`
	Content  string `json:"content"`

	Likes []Like  `json:"likes" gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE"`
	Media []Media `json:"media" gorm:"foreignKey:TweetID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedTweet is the projection of a Tweet served from the feed endpoint:
// the tweet itself, its attached media paths, its author, and who likes it.
type FeedTweet struct {
	ID          int           `json:"id"`
	Content     string        `json:"content"`
	Attachments []string      `json:"attachments"`
	Author      UserSummary   `json:"author"`
	Likes       []LikeSummary `json:"likes"`
}

type TweetService interface {
	// Create inserts the tweet and links the given pre-uploaded media rows to it.
	Create(tweet *Tweet, mediaIDs []int) error
	// Delete removes the tweet if tweet.AuthorID is its author. It backfills
	// tweet.Media with the rows removed alongside, so callers can clean up files.
	Delete(tweet *Tweet) error
	Feed() ([]FeedTweet, error)
}

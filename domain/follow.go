package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two
// users, stored as an explicit edge row. The FollowerID is the user that
// follows, the FollowedID is the user being followed. The composite unique
// index keeps the edge from ever existing twice.
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"follower_id" gorm:"notNull;uniqueIndex:idx_follow_edge"`
	Follower   User      `json:"-"`
	FollowedID int       `json:"followed_id" gorm:"notNull;uniqueIndex:idx_follow_edge"`
	Followed   User      `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName keeps the edge table name the API has always persisted under.
func (Follow) TableName() string { return "followers" }

// FollowService is a set of methods to manipulate and work with the Follow model.
// Create and Delete are idempotent: a duplicate follow and an unfollow of an
// absent edge both succeed without changing anything.
type FollowService interface {
	Create(follow *Follow) error
	Delete(follow *Follow) error
}

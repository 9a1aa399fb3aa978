package domain

import (
	"time"
)

type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	ApiKey string `json:"-" gorm:"uniqueIndex;notNull"`

	Tweets []Tweet `json:"tweets,omitempty" gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the reduced user shape embedded in profile and feed responses.
type UserSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Profile is a user together with both sides of their follow graph.
type Profile struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Followers []UserSummary `json:"followers"`
	Following []UserSummary `json:"following"`
}

// UserService is a set of methods to look up and project User records.
// ByApiKey is the credential lookup used by the auth middleware on every request.
type UserService interface {
	ByID(id int) (*User, error)
	ByApiKey(apiKey string) (*User, error)
	Profile(id int) (*Profile, error)
}

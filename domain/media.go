package domain

import (
	"io"
	"time"
)

// MaxUploadSize determines the maximum filesize of a media file to be uploaded.
const MaxUploadSize int64 = 5 << 20 // 5 Megabyte

// Media represents an uploaded file. The row is created unattached when the
// file is uploaded; TweetID stays null until a tweet claims the media by ID
// at creation time. Deleting a tweet cascades to its media rows.
type Media struct {
	ID       int    `json:"id"`
	FilePath string `json:"file_path" gorm:"notNull"`
	TweetID  *int   `json:"tweet_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Media) TableName() string { return "media" }

type MediaService interface {
	Create(media *Media) error
}

// MediaStore writes and removes the actual files behind Media rows.
type MediaStore interface {
	// Save stores the file contents and returns the path the file
	// is reachable under.
	Save(file io.Reader, filename string) (string, error)
	Remove(filePath string) error
}

//go:build integration

package crud

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"miniTwitter/domain"
	"miniTwitter/errs"
)

// setupDB starts a throwaway postgres container, runs the migrations and
// returns a gorm connection to it. The container is terminated when the
// test finishes.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "mini_twitter_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=mini_twitter_test sslmode=disable",
		host, port.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Tweet{},
		&domain.Media{},
		&domain.Follow{},
		&domain.Like{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, apiKey string) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, ApiKey: apiKey}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestIntegration_TweetService_DeleteChecksAuthor(t *testing.T) {
	db := setupDB(t)
	ts := NewTweetService(db)
	alice := seedUser(t, db, "Alice", "alice-key")
	bob := seedUser(t, db, "Bob", "bob-key")

	tweet := domain.Tweet{AuthorID: alice.ID, Content: "mine"}
	require.NoError(t, ts.Create(&tweet, nil))

	// Bob deleting Alice's tweet must fail like a missing tweet and leave
	// the row in place.
	err := ts.Delete(&domain.Tweet{ID: tweet.ID, AuthorID: bob.ID})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	var count int64
	require.NoError(t, db.Model(&domain.Tweet{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, ts.Delete(&domain.Tweet{ID: tweet.ID, AuthorID: alice.ID}))
	require.NoError(t, db.Model(&domain.Tweet{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestIntegration_TweetService_MediaBackfillAndFeed(t *testing.T) {
	db := setupDB(t)
	ts := NewTweetService(db)
	ms := NewMediaService(db)
	alice := seedUser(t, db, "Alice", "alice-key")

	media := domain.Media{FilePath: "uploads/abc.png"}
	require.NoError(t, ms.Create(&media))

	tweet := domain.Tweet{AuthorID: alice.ID, Content: "with media"}
	require.NoError(t, ts.Create(&tweet, []int{media.ID}))

	// The pre-uploaded row is now claimed by the tweet.
	var stored domain.Media
	require.NoError(t, db.First(&stored, media.ID).Error)
	require.NotNil(t, stored.TweetID)
	assert.Equal(t, tweet.ID, *stored.TweetID)

	feed, err := ts.Feed()
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "with media", feed[0].Content)
	assert.Equal(t, "Alice", feed[0].Author.Name)
	assert.Equal(t, []string{"uploads/abc.png"}, feed[0].Attachments)
	assert.Empty(t, feed[0].Likes)

	// Delete hands the media rows back so the caller can remove the files.
	deleted := domain.Tweet{ID: tweet.ID, AuthorID: alice.ID}
	require.NoError(t, ts.Delete(&deleted))
	require.Len(t, deleted.Media, 1)
	assert.Equal(t, "uploads/abc.png", deleted.Media[0].FilePath)
}

func TestIntegration_TweetService_FeedNewestFirst(t *testing.T) {
	db := setupDB(t)
	ts := NewTweetService(db)
	alice := seedUser(t, db, "Alice", "alice-key")

	first := domain.Tweet{AuthorID: alice.ID, Content: "first"}
	require.NoError(t, ts.Create(&first, nil))
	time.Sleep(10 * time.Millisecond)
	second := domain.Tweet{AuthorID: alice.ID, Content: "second"}
	require.NoError(t, ts.Create(&second, nil))

	feed, err := ts.Feed()
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "second", feed[0].Content)
	assert.Equal(t, "first", feed[1].Content)
}

func TestIntegration_LikeService_DuplicateIsOneRow(t *testing.T) {
	db := setupDB(t)
	ts := NewTweetService(db)
	ls := NewLikeService(db)
	alice := seedUser(t, db, "Alice", "alice-key")
	bob := seedUser(t, db, "Bob", "bob-key")

	tweet := domain.Tweet{AuthorID: alice.ID, Content: "likeable"}
	require.NoError(t, ts.Create(&tweet, nil))

	// The second like hits the unique index and is swallowed by the
	// ON CONFLICT clause.
	require.NoError(t, ls.Create(&domain.Like{UserID: bob.ID, TweetID: tweet.ID}))
	require.NoError(t, ls.Create(&domain.Like{UserID: bob.ID, TweetID: tweet.ID}))

	var count int64
	require.NoError(t, db.Model(&domain.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Unlike is idempotent too.
	require.NoError(t, ls.Delete(&domain.Like{UserID: bob.ID, TweetID: tweet.ID}))
	require.NoError(t, ls.Delete(&domain.Like{UserID: bob.ID, TweetID: tweet.ID}))
	require.NoError(t, db.Model(&domain.Like{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestIntegration_LikeService_MissingTweet(t *testing.T) {
	db := setupDB(t)
	ls := NewLikeService(db)
	alice := seedUser(t, db, "Alice", "alice-key")

	err := ls.Create(&domain.Like{UserID: alice.ID, TweetID: 999})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	err = ls.Delete(&domain.Like{UserID: alice.ID, TweetID: 999})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestIntegration_FollowService_EdgeAndProfile(t *testing.T) {
	db := setupDB(t)
	fs := NewFollowService(db)
	us := NewUserService(db)
	alice := seedUser(t, db, "Alice", "alice-key")
	bob := seedUser(t, db, "Bob", "bob-key")

	err := fs.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: alice.ID})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = fs.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: 999})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	require.NoError(t, fs.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID}))
	require.NoError(t, fs.Create(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID}))

	var count int64
	require.NoError(t, db.Model(&domain.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The edge shows up on both profiles.
	aliceProfile, err := us.Profile(alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceProfile.Following, 1)
	assert.Equal(t, "Bob", aliceProfile.Following[0].Name)
	assert.Empty(t, aliceProfile.Followers)

	bobProfile, err := us.Profile(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobProfile.Followers, 1)
	assert.Equal(t, "Alice", bobProfile.Followers[0].Name)

	require.NoError(t, fs.Delete(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID}))
	require.NoError(t, fs.Delete(&domain.Follow{FollowerID: alice.ID, FollowedID: bob.ID}))
	require.NoError(t, db.Model(&domain.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestIntegration_UserService_ByApiKey(t *testing.T) {
	db := setupDB(t)
	us := NewUserService(db)
	alice := seedUser(t, db, "Alice", "alice-key")

	user, err := us.ByApiKey("alice-key")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = us.ByApiKey("nope")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestIntegration_TweetService_LikesInFeed(t *testing.T) {
	db := setupDB(t)
	ts := NewTweetService(db)
	ls := NewLikeService(db)
	alice := seedUser(t, db, "Alice", "alice-key")
	bob := seedUser(t, db, "Bob", "bob-key")

	tweet := domain.Tweet{AuthorID: alice.ID, Content: "popular"}
	require.NoError(t, ts.Create(&tweet, nil))
	require.NoError(t, ls.Create(&domain.Like{UserID: bob.ID, TweetID: tweet.ID}))

	feed, err := ts.Feed()
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Len(t, feed[0].Likes, 1)
	assert.Equal(t, bob.ID, feed[0].Likes[0].UserID)
	assert.Equal(t, "Bob", feed[0].Likes[0].Name)
}

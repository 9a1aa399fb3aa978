package http

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"testing"

	"miniTwitter/cache"
	"miniTwitter/domain"
	"miniTwitter/errs"
)

// edge is a (from, to) pair in one of the in-memory edge sets.
type edge [2]int

// fakeBackend holds in-memory state for the domain services plus the
// MediaStore, so handler tests run the full request path without a database
// or a filesystem. The Tweet/Follow/Like/Media service interfaces all
// declare a Create method with differing signatures, which one struct can't
// implement side by side, so the edge and media services are exposed
// through small view wrappers that shadow the colliding methods.
type fakeBackend struct {
	users  map[int]*domain.User
	tweets map[int]*domain.Tweet
	media  map[int]*domain.Media
	likes  map[edge]bool // (userID, tweetID)
	folls  map[edge]bool // (followerID, followedID)
	files  map[string][]byte
	nextID int

	feedErr error // forced failure for the feed query
}

var (
	_ domain.UserService   = &fakeBackend{}
	_ domain.TweetService  = &fakeBackend{}
	_ domain.MediaStore    = &fakeBackend{}
	_ domain.FollowService = followView{}
	_ domain.LikeService   = likeView{}
	_ domain.MediaService  = mediaView{}
)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:  make(map[int]*domain.User),
		tweets: make(map[int]*domain.Tweet),
		media:  make(map[int]*domain.Media),
		likes:  make(map[edge]bool),
		folls:  make(map[edge]bool),
		files:  make(map[string][]byte),
	}
}

func (b *fakeBackend) addUser(name, apiKey string) *domain.User {
	b.nextID++
	u := &domain.User{ID: b.nextID, Name: name, ApiKey: apiKey}
	b.users[u.ID] = u
	return u
}

// UserService

func (b *fakeBackend) ByID(id int) (*domain.User, error) {
	if u, ok := b.users[id]; ok {
		return u, nil
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
}

func (b *fakeBackend) ByApiKey(apiKey string) (*domain.User, error) {
	for _, u := range b.users {
		if u.ApiKey == apiKey {
			return u, nil
		}
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
}

func (b *fakeBackend) Profile(id int) (*domain.Profile, error) {
	user, err := b.ByID(id)
	if err != nil {
		return nil, err
	}
	p := &domain.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Followers: []domain.UserSummary{},
		Following: []domain.UserSummary{},
	}
	for e := range b.folls {
		if e[1] == id {
			f := b.users[e[0]]
			p.Followers = append(p.Followers, domain.UserSummary{ID: f.ID, Name: f.Name})
		}
		if e[0] == id {
			f := b.users[e[1]]
			p.Following = append(p.Following, domain.UserSummary{ID: f.ID, Name: f.Name})
		}
	}
	sort.Slice(p.Followers, func(i, j int) bool { return p.Followers[i].ID < p.Followers[j].ID })
	sort.Slice(p.Following, func(i, j int) bool { return p.Following[i].ID < p.Following[j].ID })
	return p, nil
}

// TweetService

func (b *fakeBackend) Create(tweet *domain.Tweet, mediaIDs []int) error {
	if tweet.Content == "" {
		return errs.Errorf(errs.EINVALID, "Tweet content must not be empty.")
	}
	b.nextID++
	tweet.ID = b.nextID
	b.tweets[tweet.ID] = tweet
	for _, id := range mediaIDs {
		if m, ok := b.media[id]; ok {
			tweetID := tweet.ID
			m.TweetID = &tweetID
		}
	}
	return nil
}

func (b *fakeBackend) Delete(tweet *domain.Tweet) error {
	stored, ok := b.tweets[tweet.ID]
	if !ok || stored.AuthorID != tweet.AuthorID {
		return errs.Errorf(errs.ENOTFOUND, "Tweet not found or unauthorized.")
	}
	for id, m := range b.media {
		if m.TweetID != nil && *m.TweetID == tweet.ID {
			tweet.Media = append(tweet.Media, *m)
			delete(b.media, id)
		}
	}
	for e := range b.likes {
		if e[1] == tweet.ID {
			delete(b.likes, e)
		}
	}
	delete(b.tweets, tweet.ID)
	return nil
}

func (b *fakeBackend) Feed() ([]domain.FeedTweet, error) {
	if b.feedErr != nil {
		return nil, b.feedErr
	}
	ids := make([]int, 0, len(b.tweets))
	for id := range b.tweets {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids))) // newest first
	feed := make([]domain.FeedTweet, 0, len(ids))
	for _, id := range ids {
		t := b.tweets[id]
		author := b.users[t.AuthorID]
		ft := domain.FeedTweet{
			ID:          t.ID,
			Content:     t.Content,
			Attachments: []string{},
			Author:      domain.UserSummary{ID: author.ID, Name: author.Name},
			Likes:       []domain.LikeSummary{},
		}
		for _, m := range b.media {
			if m.TweetID != nil && *m.TweetID == t.ID {
				ft.Attachments = append(ft.Attachments, m.FilePath)
			}
		}
		for e := range b.likes {
			if e[1] == t.ID {
				u := b.users[e[0]]
				ft.Likes = append(ft.Likes, domain.LikeSummary{UserID: u.ID, Name: u.Name})
			}
		}
		sort.Slice(ft.Likes, func(i, j int) bool { return ft.Likes[i].UserID < ft.Likes[j].UserID })
		feed = append(feed, ft)
	}
	return feed, nil
}

// MediaStore

func (b *fakeBackend) Save(file io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	path := filepath.Join("uploads", fmt.Sprintf("%d-%s", len(b.files)+1, filename))
	b.files[path] = data
	return path, nil
}

func (b *fakeBackend) Remove(filePath string) error {
	delete(b.files, filePath)
	return nil
}

// followView implements domain.FollowService over the backend's follow set.
type followView struct{ *fakeBackend }

func (v followView) Create(follow *domain.Follow) error {
	if follow.FollowerID == follow.FollowedID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	if _, ok := v.users[follow.FollowedID]; !ok {
		return errs.Errorf(errs.ENOTFOUND, "User not found.")
	}
	v.folls[edge{follow.FollowerID, follow.FollowedID}] = true
	return nil
}

func (v followView) Delete(follow *domain.Follow) error {
	if _, ok := v.users[follow.FollowedID]; !ok {
		return errs.Errorf(errs.ENOTFOUND, "User not found.")
	}
	delete(v.folls, edge{follow.FollowerID, follow.FollowedID})
	return nil
}

// likeView implements domain.LikeService over the backend's like set.
type likeView struct{ *fakeBackend }

func (v likeView) Create(like *domain.Like) error {
	if _, ok := v.tweets[like.TweetID]; !ok {
		return errs.Errorf(errs.ENOTFOUND, "Tweet not found.")
	}
	v.likes[edge{like.UserID, like.TweetID}] = true
	return nil
}

func (v likeView) Delete(like *domain.Like) error {
	if _, ok := v.tweets[like.TweetID]; !ok {
		return errs.Errorf(errs.ENOTFOUND, "Tweet not found.")
	}
	delete(v.likes, edge{like.UserID, like.TweetID})
	return nil
}

// mediaView implements domain.MediaService over the backend's media rows.
type mediaView struct{ *fakeBackend }

func (v mediaView) Create(media *domain.Media) error {
	v.nextID++
	media.ID = v.nextID
	v.media[media.ID] = media
	return nil
}

// newTestServer wires a Server to a fake backend seeded with two users.
func newTestServer(t *testing.T) (*Server, *fakeBackend, *domain.User, *domain.User) {
	t.Helper()
	b := newFakeBackend()
	alice := b.addUser("Alice", "alice-key")
	bob := b.addUser("Bob", "bob-key")
	s := NewServer(b, b, followView{b}, likeView{b}, mediaView{b}, b, cache.New(), t.TempDir())
	return s, b, alice, bob
}

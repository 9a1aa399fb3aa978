package crud

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"miniTwitter/domain"
	"miniTwitter/errs"
)

// TweetService manages Tweets.
// It implements the domain.TweetService interface.
type TweetService struct {
	tweetValidator
}

// tweetValidator runs validations on incoming Tweet data.
// On success, it passes the data on to tweetGorm.
// Otherwise, it returns the error of the validation that has failed.
type tweetValidator struct {
	tweetGorm
}

// tweetGorm runs CRUD operations on the database using incoming Tweet data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type tweetGorm struct {
	db *gorm.DB
}

// NewTweetService returns an instance of TweetService.
func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db: db,
			},
		},
	}
}

// Ensure the TweetService struct properly implements the domain.TweetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TweetService = &TweetService{}

// Create runs validations needed for creating new Tweet database records.
func (tv *tweetValidator) Create(tweet *domain.Tweet, mediaIDs []int) error {
	err := runTweetValFns(tweet,
		tv.authorIdValid,
		tv.contentMinLength,
		tv.contentMaxLength)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Create(tweet, mediaIDs)
}

// Delete runs validations needed for deleting existing Tweet database records.
func (tv *tweetValidator) Delete(tweet *domain.Tweet) error {
	err := runTweetValFns(tweet, tv.idValid)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Delete(tweet)
}

// runTweetValFns runs any number of functions of type tweetValFn on the passed in Tweet object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runTweetValFns(tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tweet); err != nil {
			return err
		}
	}
	return nil
}

// A tweetValFn is any function that takes in a pointer to a domain.Tweet object and returns an error.
type tweetValFn = func(tweet *domain.Tweet) error

// contentMinLength makes sure that the Tweet's content is not empty.
func (tv *tweetValidator) contentMinLength(tweet *domain.Tweet) error {
	contentStripped := strings.ReplaceAll(tweet.Content, " ", "")
	if contentStripped == "" {
		return errs.Errorf(errs.EINVALID, "Tweet content must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure that the Tweet's content does not exceed the maximum content length.
func (tv *tweetValidator) contentMaxLength(tweet *domain.Tweet) error {
	if utf8.RuneCountInString(tweet.Content) > 280 {
		return errs.Errorf(errs.EINVALID, "Tweet content max length is 280 characters.")
	}
	return nil
}

// idValid makes sure that the passed in ID of a Tweet to be deleted is greater than 0.
func (tv *tweetValidator) idValid(tweet *domain.Tweet) error {
	if tweet.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return nil
}

// authorIdValid ensures that the authorId is not empty.
func (tv *tweetValidator) authorIdValid(tweet *domain.Tweet) error {
	if tweet.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "Author ID is required.")
	}
	return nil
}

// Create stores the data from the Tweet object in a new database record.
// Media rows whose IDs were supplied alongside get their tweet_id backfilled,
// linking files uploaded before the tweet existed. The media rows carry no
// uploader, so there is no ownership to check here.
func (tg *tweetGorm) Create(tweet *domain.Tweet, mediaIDs []int) error {
	if err := tg.db.Omit(clause.Associations).Create(tweet).Error; err != nil {
		return err
	}
	if len(mediaIDs) > 0 {
		err := tg.db.Model(&domain.Media{}).
			Where("id IN ?", mediaIDs).
			Update("tweet_id", tweet.ID).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the Tweet record matching both the tweet's ID and its
// AuthorID. Authorization is folded into the query predicate: a tweet that
// exists but belongs to someone else deletes zero rows, exactly like a tweet
// that never existed, so the two cases stay indistinguishable to the caller.
// Likes and media rows go with the tweet through their FK constraints; the
// removed media rows are backfilled onto the tweet for file cleanup.
func (tg *tweetGorm) Delete(tweet *domain.Tweet) error {
	var media []domain.Media
	err := tg.db.Where("tweet_id = ?", tweet.ID).Find(&media).Error
	if err != nil {
		return err
	}

	res := tg.db.Where("id = ? AND author_id = ?", tweet.ID, tweet.AuthorID).Delete(&domain.Tweet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "Tweet not found or unauthorized.")
	}
	tweet.Media = media
	return nil
}

// Feed retrieves every tweet, newest first, and shapes each into the feed
// projection: content plus attachment paths, author summary and like summaries.
func (tg *tweetGorm) Feed() ([]domain.FeedTweet, error) {
	var tweets []domain.Tweet
	err := tg.db.
		Preload("Author").
		Preload("Media").
		Preload("Likes.User").
		Order("created_at desc").
		Find(&tweets).Error
	if err != nil {
		return nil, err
	}
	feed := make([]domain.FeedTweet, 0, len(tweets))
	for _, tweet := range tweets {
		ft := domain.FeedTweet{
			ID:          tweet.ID,
			Content:     tweet.Content,
			Attachments: []string{},
			Author: domain.UserSummary{
				ID:   tweet.Author.ID,
				Name: tweet.Author.Name,
			},
			Likes: []domain.LikeSummary{},
		}
		for _, m := range tweet.Media {
			ft.Attachments = append(ft.Attachments, m.FilePath)
		}
		for _, l := range tweet.Likes {
			ft.Likes = append(ft.Likes, domain.LikeSummary{UserID: l.UserID, Name: l.User.Name})
		}
		feed = append(feed, ft)
	}
	return feed, nil
}

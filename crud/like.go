package crud

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"miniTwitter/domain"
	"miniTwitter/errs"
)

// LikeService manages Like edges.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

type likeValidator struct {
	likeGorm
}

type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

var _ domain.LikeService = &LikeService{}

// Create runs validations needed for creating new Like edges.
func (lv *likeValidator) Create(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.userIdValid,
		lv.likedTweetExists)
	if err != nil {
		return err
	}
	return lv.likeGorm.Create(like)
}

// Delete runs validations needed for deleting existing Like edges.
func (lv *likeValidator) Delete(like *domain.Like) error {
	err := runLikeValFns(like,
		lv.userIdValid,
		lv.likedTweetExists)
	if err != nil {
		return err
	}
	return lv.likeGorm.Delete(like)
}

func runLikeValFns(like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(like); err != nil {
			return err
		}
	}
	return nil
}

type likeValFn func(like *domain.Like) error

// likedTweetExists makes sure that the tweet on the edge actually exists.
func (lv *likeValidator) likedTweetExists(like *domain.Like) error {
	err := lv.db.First(&domain.Tweet{}, "id = ?", like.TweetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Tweet not found.")
		}
		return err
	}
	return nil
}

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// Create inserts the like edge. A duplicate like hits the composite unique
// key and becomes an atomic no-op, so re-liking never errors and the user
// appears in the tweet's liked set at most once.
func (lg *likeGorm) Create(like *domain.Like) error {
	return lg.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(like).Error
}

// Delete removes the like edge. Unliking a tweet that was never liked
// is a no-op.
func (lg *likeGorm) Delete(like *domain.Like) error {
	return lg.db.
		Where("user_id = ? AND tweet_id = ?", like.UserID, like.TweetID).
		Delete(&domain.Like{}).Error
}

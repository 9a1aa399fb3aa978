package crud

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"miniTwitter/domain"
	"miniTwitter/errs"
)

// FollowService manages Follow edges.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

type followValidator struct {
	followGorm
}

type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

var _ domain.FollowService = &FollowService{}

// Create runs validations needed for creating new Follow edges.
func (fv *followValidator) Create(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.followedIsNotFollower,
		fv.followedUserExists)
	if err != nil {
		return err
	}
	return fv.followGorm.Create(follow)
}

// Delete runs validations needed for deleting existing Follow edges.
func (fv *followValidator) Delete(follow *domain.Follow) error {
	err := runFollowValFns(follow, fv.followedUserExists)
	if err != nil {
		return err
	}
	return fv.followGorm.Delete(follow)
}

func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			return err
		}
	}
	return nil
}

type followValFn func(follow *domain.Follow) error

// followedIsNotFollower rejects self-follows.
func (fv *followValidator) followedIsNotFollower(follow *domain.Follow) error {
	if follow.FollowerID == follow.FollowedID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return nil
}

// followedUserExists makes sure the user on the other end of the edge exists.
func (fv *followValidator) followedUserExists(follow *domain.Follow) error {
	err := fv.db.First(&domain.User{}, "id = ?", follow.FollowedID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "User not found.")
		}
		return err
	}
	return nil
}

// Create inserts the follow edge. The composite unique key plus ON CONFLICT
// DO NOTHING make a duplicate follow an atomic no-op instead of a
// read-check-then-write race.
func (fg *followGorm) Create(follow *domain.Follow) error {
	return fg.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(follow).Error
}

// Delete removes the follow edge. Deleting an edge that doesn't exist
// is a no-op, so unfollow is idempotent too.
func (fg *followGorm) Delete(follow *domain.Follow) error {
	return fg.db.
		Where("follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).
		Delete(&domain.Follow{}).Error
}

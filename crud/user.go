package crud

import (
	"errors"

	"gorm.io/gorm"

	"miniTwitter/domain"
	"miniTwitter/errs"
)

// UserService reads User records and their profile projections. Users are
// never created or mutated through the API, so unlike the other services
// there is no validation layer to run writes through.
type UserService struct {
	userGorm
}

type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		userGorm{
			db: db,
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// ByID retrieves a single User by ID.
func (ug *userGorm) ByID(id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
		}
		return nil, err
	}
	return &user, nil
}

// ByApiKey retrieves the User owning the given api key. This is the
// credential lookup behind every authenticated request.
func (ug *userGorm) ByApiKey(apiKey string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "api_key = ?", apiKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
		}
		return nil, err
	}
	return &user, nil
}

// Profile retrieves a user together with summaries of everyone following
// them and everyone they follow, resolved through the followers edge table.
func (ug *userGorm) Profile(id int) (*domain.Profile, error) {
	user, err := ug.ByID(id)
	if err != nil {
		return nil, err
	}
	profile := &domain.Profile{
		ID:        user.ID,
		Name:      user.Name,
		Followers: []domain.UserSummary{},
		Following: []domain.UserSummary{},
	}
	err = ug.db.Model(&domain.User{}).
		Select("users.id, users.name").
		Joins("JOIN followers ON followers.follower_id = users.id").
		Where("followers.followed_id = ?", id).
		Order("users.id").
		Scan(&profile.Followers).Error
	if err != nil {
		return nil, err
	}
	err = ug.db.Model(&domain.User{}).
		Select("users.id, users.name").
		Joins("JOIN followers ON followers.followed_id = users.id").
		Where("followers.follower_id = ?", id).
		Order("users.id").
		Scan(&profile.Following).Error
	if err != nil {
		return nil, err
	}
	return profile, nil
}

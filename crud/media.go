package crud

import (
	"gorm.io/gorm"

	"miniTwitter/domain"
	"miniTwitter/errs"
)

// MediaService manages Media rows. The actual files live in the
// storage.MediaStore; this service only records their paths.
type MediaService struct {
	mediaValidator
}

type mediaValidator struct {
	mediaGorm
}

type mediaGorm struct {
	db *gorm.DB
}

// NewMediaService returns an instance of MediaService.
func NewMediaService(db *gorm.DB) *MediaService {
	return &MediaService{
		mediaValidator{
			mediaGorm{
				db: db,
			},
		},
	}
}

var _ domain.MediaService = &MediaService{}

// Create runs validations needed for creating new Media database records.
func (mv *mediaValidator) Create(media *domain.Media) error {
	if err := mv.filePathRequired(media); err != nil {
		return err
	}
	return mv.mediaGorm.Create(media)
}

// filePathRequired ensures a media row always points at a stored file.
func (mv *mediaValidator) filePathRequired(media *domain.Media) error {
	if media.FilePath == "" {
		return errs.Errorf(errs.EINVALID, "Media file path is required.")
	}
	return nil
}

// Create stores the data from the Media object in a new database record.
// The row starts out unattached; a tweet claims it later by ID.
func (mg *mediaGorm) Create(media *domain.Media) error {
	return mg.db.Create(media).Error
}

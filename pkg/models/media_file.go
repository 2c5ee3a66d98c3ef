package models

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// MediaFile is a row of the metadata store's files table. Column names follow
// the platform metadata store so queries can be written against them
// directly.
type MediaFile struct {
	// ID is the row id appended to content locators.
	ID int64 `gorm:"column:_id;primaryKey;autoIncrement"`

	// Data is the absolute path reported to callers. Empty when the platform
	// withholds paths for the row (scoped storage).
	Data string `gorm:"column:_data;index"`

	// DisplayName is the user-visible file name.
	DisplayName string `gorm:"column:_display_name"`

	Width    int64  `gorm:"column:width;not null;default:0"`
	Height   int64  `gorm:"column:height;not null;default:0"`
	MimeType string `gorm:"column:mime_type;not null"`

	// MediaType is one of the mediastore.MediaType* constants.
	MediaType int `gorm:"column:media_type;not null;default:0"`

	// DateAdded and DateModified are unix seconds.
	DateAdded    int64 `gorm:"column:date_added;not null;default:0"`
	DateModified int64 `gorm:"column:date_modified;not null;default:0"`

	// Duration is in milliseconds.
	Duration int64 `gorm:"column:duration;not null;default:0"`

	VolumeName string `gorm:"column:volume_name;not null;default:'external'"`

	// IsDownload marks rows also served by the downloads provider.
	IsDownload bool `gorm:"column:is_download;not null;default:false"`

	// Source is where the bytes live. Never exposed through queries.
	Source string `gorm:"column:source;uniqueIndex;not null"`
}

// TableName specifies the table name for GORM.
func (MediaFile) TableName() string {
	return "files"
}

// MediaFiles is a slice of media files.
type MediaFiles []MediaFile

func (mf *MediaFile) validate() error {
	return validation.ValidateStruct(mf,
		validation.Field(&mf.Source, validation.Required),
		validation.Field(&mf.MimeType, validation.Required),
		validation.Field(&mf.VolumeName, validation.Required),
		validation.Field(&mf.MediaType, validation.Min(0), validation.Max(3)),
		validation.Field(&mf.Width, validation.Min(int64(0))),
		validation.Field(&mf.Height, validation.Min(int64(0))),
		validation.Field(&mf.Duration, validation.Min(int64(0))),
	)
}

// Create inserts a new media file.
func (mf *MediaFile) Create(db *gorm.DB) error {
	if err := mf.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	return db.Create(mf).Error
}

// Get retrieves a media file by ID.
func (mf *MediaFile) Get(db *gorm.DB, id int64) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return err
	}

	return db.First(mf, "_id = ?", id).Error
}

// GetBySource retrieves a media file by its source path.
func (mf *MediaFile) GetBySource(db *gorm.DB, source string) error {
	if err := validation.Validate(source, validation.Required); err != nil {
		return err
	}

	return db.
		Where("source = ?", source).
		First(mf).
		Error
}

// Upsert creates the media file, or replaces the row that already has the
// same source. The row keeps its ID and DateAdded on replace.
func (mf *MediaFile) Upsert(db *gorm.DB) error {
	if err := mf.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		existing := &MediaFile{}
		err := existing.GetBySource(tx, mf.Source)
		switch {
		case err == nil:
			mf.ID = existing.ID
			mf.DateAdded = existing.DateAdded
			return tx.Save(mf).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(mf).Error
		default:
			return fmt.Errorf("error checking for existing media file: %w", err)
		}
	})
}

// Delete removes a media file.
func (mf *MediaFile) Delete(db *gorm.DB) error {
	if err := validation.Validate(mf.ID, validation.Required); err != nil {
		return err
	}

	return db.Delete(mf).Error
}

// FindAll retrieves every media file in row order.
func (mfs *MediaFiles) FindAll(db *gorm.DB) error {
	return db.Order("_id").Find(mfs).Error
}

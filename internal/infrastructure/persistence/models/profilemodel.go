package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/klarnacheckout/internal/shared/constants"
)

// ProfileModel is a customer billing profile.
type ProfileModel struct {
	ID                 uint   `gorm:"primaryKey"`
	Organization       string `gorm:"size:255"`
	GivenName          string `gorm:"size:255"`
	FamilyName         string `gorm:"size:255"`
	CountryCode        string `gorm:"size:2"`
	PostalCode         string `gorm:"size:64"`
	Locality           string `gorm:"size:255"`
	AdministrativeArea string `gorm:"size:255"`
	AddressLine1       string `gorm:"size:255"`
	AddressLine2       string `gorm:"size:255"`
	Fields             datatypes.JSONMap
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ProfileModel) TableName() string {
	return constants.TableProfiles
}

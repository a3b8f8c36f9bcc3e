package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/wavedeck-app/wavedeck/pkg/internal/database"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

func GetProfile(id uint) (models.Profile, error) {
	var profile models.Profile
	if err := database.C.
		Where(models.Profile{BaseModel: models.BaseModel{ID: id}}).
		First(&profile).Error; err != nil {
		return profile, err
	}
	return profile, nil
}

// ResolveProfile maps the authenticated principal onto a local profile row,
// creating one from the token's display data the first time the user shows up.
func ResolveProfile(user models.Account) (models.Profile, error) {
	var profile models.Profile
	err := database.C.
		Where(models.Profile{ExternalID: user.ID}).
		First(&profile).Error
	if err == nil {
		return profile, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return profile, err
	}

	profile = models.Profile{
		ExternalID: user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Avatar:     user.Avatar,
	}
	if err := database.C.Create(&profile).Error; err != nil {
		return profile, err
	}

	return profile, nil
}

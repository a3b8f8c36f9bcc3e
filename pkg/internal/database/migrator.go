package database

import (
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Profile{},
	&models.Chat{},
	&models.ChatMember{},
	&models.Message{},
	&models.CalendarEvent{},
	&models.EventParticipant{},
	&models.Call{},
	&models.CallParticipant{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}

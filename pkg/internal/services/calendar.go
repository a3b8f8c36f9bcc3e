package services

import (
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"

	"github.com/wavedeck-app/wavedeck/pkg/internal/database"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

func GetCalendarEvent(id uint) (models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := database.C.
		Where(models.CalendarEvent{BaseModel: models.BaseModel{ID: id}}).
		Preload("Creator").
		Preload("Participants").
		Preload("Participants.Profile").
		First(&event).Error; err != nil {
		return event, err
	}
	return event, nil
}

func ListCalendarEvent(user models.Profile, since, until time.Time) ([]models.CalendarEvent, error) {
	var attending []models.EventParticipant
	if err := database.C.
		Where(models.EventParticipant{ProfileID: user.ID}).
		Find(&attending).Error; err != nil {
		return nil, err
	}

	idx := lo.Map(attending, func(item models.EventParticipant, _ int) uint {
		return item.EventID
	})

	var events []models.CalendarEvent
	if err := database.C.
		Where("starts_at BETWEEN ? AND ?", since, until).
		Where("creator_id = ? OR id IN ?", user.ID, idx).
		Preload("Creator").
		Order("starts_at ASC").
		Find(&events).Error; err != nil {
		return events, err
	}
	return events, nil
}

func NewCalendarEvent(creator models.Profile, event models.CalendarEvent, participantIds []uint) (models.CalendarEvent, error) {
	event.CreatorID = creator.ID
	if err := database.C.Create(&event).Error; err != nil {
		return event, err
	}

	participants := lo.Uniq(append([]uint{creator.ID}, participantIds...))
	rows := lo.Map(participants, func(id uint, _ int) models.EventParticipant {
		return models.EventParticipant{
			EventID:   event.ID,
			ProfileID: id,
		}
	})
	if err := database.C.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "profile_id"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return event, err
	}

	return GetCalendarEvent(event.ID)
}

// LinkCallToEvent writes the call back-link onto the calendar event so event
// attendees can jump straight into the call.
func LinkCallToEvent(eventId, callId uint) error {
	return database.C.Model(&models.CalendarEvent{}).
		Where("id = ?", eventId).
		Update("call_id", callId).Error
}

func DeleteCalendarEvent(event models.CalendarEvent) error {
	return database.C.Delete(&event).Error
}

package services

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wavedeck-app/wavedeck/pkg/internal/database"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

func CountMessage(chat models.Chat) int64 {
	var count int64
	if err := database.C.Where(models.Message{
		ChatID: chat.ID,
	}).Model(&models.Message{}).Count(&count).Error; err != nil {
		return 0
	}
	return count
}

func ListMessage(chat models.Chat, take int, offset int) ([]models.Message, error) {
	if take > 100 {
		take = 100
	}

	var messages []models.Message
	if err := database.C.
		Where(models.Message{ChatID: chat.ID}).
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Preload("Sender").
		Preload("Sender.Profile").
		Find(&messages).Error; err != nil {
		return messages, err
	}
	return messages, nil
}

func GetMessage(chat models.Chat, id uint) (models.Message, error) {
	var message models.Message
	if err := database.C.
		Where(models.Message{
			BaseModel: models.BaseModel{ID: id},
			ChatID:    chat.ID,
		}).
		Preload("Sender").
		Preload("Sender.Profile").
		First(&message).Error; err != nil {
		return message, err
	}
	return message, nil
}

func GetMessageWithSender(chat models.Chat, member models.ChatMember, id uint) (models.Message, error) {
	var message models.Message
	if err := database.C.Where(models.Message{
		BaseModel: models.BaseModel{ID: id},
		ChatID:    chat.ID,
		SenderID:  member.ID,
	}).First(&message).Error; err != nil {
		return message, err
	}
	return message, nil
}

func NewMessage(message models.Message) (models.Message, error) {
	if len(message.Uuid) == 0 {
		message.Uuid = uuid.NewString()
	}
	if err := database.C.Save(&message).Error; err != nil {
		return message, err
	}

	message, _ = GetMessage(models.Chat{BaseModel: models.BaseModel{ID: message.ChatID}}, message.ID)
	return message, nil
}

// PostCallActivity leaves a call lifecycle marker in the linked chat's
// history. Best effort; the call itself is already committed.
func PostCallActivity(chatId uint, sender models.Profile, kind string, body map[string]any) {
	var member models.ChatMember
	if err := database.C.Where(models.ChatMember{
		ChatID:    chatId,
		ProfileID: sender.ID,
	}).First(&member).Error; err != nil {
		log.Warn().Err(err).Uint("chat", chatId).Msg("Unable to post call activity message.")
		return
	}

	if _, err := NewMessage(models.Message{
		Uuid:     uuid.NewString(),
		Body:     body,
		Type:     kind,
		ChatID:   chatId,
		SenderID: member.ID,
	}); err != nil {
		log.Warn().Err(err).Uint("chat", chatId).Msg("Unable to post call activity message.")
	}
}

func DeleteMessage(message models.Message) error {
	return database.C.Delete(&message).Error
}

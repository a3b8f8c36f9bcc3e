package services

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/wavedeck-app/wavedeck/pkg/internal/database"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

func GetChat(id uint) (models.Chat, error) {
	var chat models.Chat
	if err := database.C.
		Where(models.Chat{BaseModel: models.BaseModel{ID: id}}).
		Preload("Owner").
		Preload("Members").
		Preload("Members.Profile").
		First(&chat).Error; err != nil {
		return chat, err
	}
	return chat, nil
}

func ListAvailableChat(user models.Profile, take, offset int) ([]models.Chat, error) {
	var memberships []models.ChatMember
	if err := database.C.
		Where(models.ChatMember{ProfileID: user.ID}).
		Find(&memberships).Error; err != nil {
		return nil, err
	}

	idx := lo.Map(memberships, func(item models.ChatMember, _ int) uint {
		return item.ChatID
	})

	var chats []models.Chat
	if err := database.C.
		Where("id IN ?", idx).
		Limit(take).Offset(offset).
		Preload("Owner").
		Order("created_at DESC").
		Find(&chats).Error; err != nil {
		return chats, err
	}
	return chats, nil
}

// GetChatIdentity resolves the chat and the caller's membership in it in one
// go; callers use it as the access gate for chat-scoped operations.
func GetChatIdentity(user models.Profile, chatId uint) (models.Chat, models.ChatMember, error) {
	var member models.ChatMember
	chat, err := GetChat(chatId)
	if err != nil {
		return chat, member, err
	}

	if err := database.C.Where(models.ChatMember{
		ChatID:    chat.ID,
		ProfileID: user.ID,
	}).First(&member).Error; err != nil {
		return chat, member, fmt.Errorf("chat principal not found: %v", err.Error())
	}

	return chat, member, nil
}

func NewChat(owner models.Profile, chat models.Chat) (models.Chat, error) {
	chat.OwnerID = owner.ID
	if err := database.C.Create(&chat).Error; err != nil {
		return chat, err
	}
	if err := AddChatMember(owner, chat); err != nil {
		return chat, err
	}

	return GetChat(chat.ID)
}

// NewDirectChat creates the two-seat DM between the owner and one other
// profile.
func NewDirectChat(owner models.Profile, other models.Profile, chat models.Chat) (models.Chat, error) {
	chat.Type = models.ChatTypeDirect
	chat.OwnerID = owner.ID
	if err := database.C.Create(&chat).Error; err != nil {
		return chat, err
	}
	for _, profile := range []models.Profile{owner, other} {
		if err := AddChatMember(profile, chat); err != nil {
			return chat, err
		}
	}

	return GetChat(chat.ID)
}

func AddChatMember(user models.Profile, target models.Chat) error {
	var member models.ChatMember
	if err := database.C.Where(models.ChatMember{
		ProfileID: user.ID,
		ChatID:    target.ID,
	}).First(&member).Error; err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	member = models.ChatMember{
		ChatID:    target.ID,
		ProfileID: user.ID,
	}

	return database.C.Save(&member).Error
}

func RemoveChatMember(member models.ChatMember) error {
	return database.C.Delete(&member).Error
}

func DeleteChat(chat models.Chat) error {
	return database.C.Delete(&chat).Error
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wavedeck-app/wavedeck/pkg/internal/http/exts"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
	"github.com/wavedeck-app/wavedeck/pkg/internal/services"
)

func listMessage(c *fiber.Ctx) error {
	take := c.QueryInt("take", 10)
	offset := c.QueryInt("offset", 0)
	user := c.Locals("user").(models.Account)
	chatId, err := c.ParamsInt("chatId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	chat, _, err := services.GetChatIdentity(profile, uint(chatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	count := services.CountMessage(chat)
	messages, err := services.ListMessage(chat, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  messages,
	})
}

func newMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	chatId, err := c.ParamsInt("chatId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var data struct {
		Uuid         string `json:"uuid"`
		Text         string `json:"text" validate:"required,max=4096"`
		RelatedUsers []uint `json:"related_users"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	chat, member, err := services.GetChatIdentity(profile, uint(chatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if len(data.Uuid) == 0 {
		data.Uuid = uuid.NewString()
	}

	message, err := services.NewMessage(models.Message{
		Uuid: data.Uuid,
		Body: map[string]any{
			"text":          data.Text,
			"related_users": data.RelatedUsers,
		},
		Type:     models.MessageTypeText,
		ChatID:   chat.ID,
		SenderID: member.ID,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(message)
}

func deleteMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	chatId, err := c.ParamsInt("chatId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	messageId, err := c.ParamsInt("messageId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	chat, member, err := services.GetChatIdentity(profile, uint(chatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	message, err := services.GetMessageWithSender(chat, member, uint(messageId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteMessage(message); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

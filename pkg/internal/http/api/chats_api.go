package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wavedeck-app/wavedeck/pkg/internal/http/exts"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
	"github.com/wavedeck-app/wavedeck/pkg/internal/services"
)

func listChat(c *fiber.Ctx) error {
	take := c.QueryInt("take", 10)
	offset := c.QueryInt("offset", 0)
	user := c.Locals("user").(models.Account)

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if chats, err := services.ListAvailableChat(profile, take, offset); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	} else {
		return c.JSON(chats)
	}
}

func getChat(c *fiber.Ctx) error {
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

	return c.JSON(chat)
}

func createChat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Name        string `json:"name" validate:"required,max=96"`
		Description string `json:"description" validate:"max=512"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	chat, err := services.NewChat(profile, models.Chat{
		Name:        data.Name,
		Description: data.Description,
		Type:        models.ChatTypeCommon,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(chat)
}

func createDirectChat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		RelatedUser uint `json:"related_user" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	related, err := services.GetProfile(data.RelatedUser)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "related user not found")
	}

	chat, err := services.NewDirectChat(profile, related, models.Chat{
		Name: "DM",
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(chat)
}

func addChatMember(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	chatId, err := c.ParamsInt("chatId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var data struct {
		RelatedUser uint `json:"related_user" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	chat, _, err := services.GetChatIdentity(profile, uint(chatId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	related, err := services.GetProfile(data.RelatedUser)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "related user not found")
	}

	if err := services.AddChatMember(related, chat); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func leaveChat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	chatId, err := c.ParamsInt("chatId")
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
	if chat.OwnerID == profile.ID {
		return fiber.NewError(fiber.StatusBadRequest, "the chat owner cannot leave their own chat")
	}

	if err := services.RemoveChatMember(member); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func deleteChat(c *fiber.Ctx) error {
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
	if chat.OwnerID != profile.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the chat owner can delete this chat")
	}

	if err := services.DeleteChat(chat); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wavedeck-app/wavedeck/pkg/internal/http/exts"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
	"github.com/wavedeck-app/wavedeck/pkg/internal/services"
)

func listCall(c *fiber.Ctx) error {
	take := c.QueryInt("take", 10)
	offset := c.QueryInt("offset", 0)
	user := c.Locals("user").(models.Account)

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if calls, err := services.ListCall(profile, take, offset); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	} else {
		return c.JSON(calls)
	}
}

func createCall(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Title        string `json:"title"`
		Participants []uint `json:"participants"`
		EventID      *uint  `json:"event_id"`
		ChatID       *uint  `json:"chat_id"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	call, err := services.NewCall(profile, services.NewCallOptions{
		Title:          data.Title,
		ParticipantIDs: data.Participants,
		EventID:        data.EventID,
		ChatID:         data.ChatID,
	})
	if err != nil {
		if errors.Is(err, services.ErrRoomUnavailable) {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		// Anything past room allocation is a store-side fault.
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	tk, err := services.EncodeCallToken(profile, call)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if call.ChatID != nil {
		services.PostCallActivity(*call.ChatID, profile, models.MessageTypeCallStart, map[string]any{
			"call_id": call.ID,
		})
	}

	return c.JSON(fiber.Map{
		"call":     call,
		"room_url": call.RoomURL,
		"token":    tk,
	})
}

func getCallForJoin(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	callId, err := c.ParamsInt("callId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	call, tk, err := services.GetCallForJoin(profile, uint(callId))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "call not found")
		} else if errors.Is(err, services.ErrCallEnded) {
			return fiber.NewError(fiber.StatusGone, "this call has ended")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"call":     call,
		"room_url": call.RoomURL,
		"token":    tk,
	})
}

func updateParticipation(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	callId, err := c.ParamsInt("callId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var data struct {
		Action string `json:"action" validate:"required,oneof=end leave"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	call, err := services.GetCall(uint(callId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "call not found")
	}
	if !services.CheckCallAccessible(profile, call) {
		// Same answer as a missing call, existence stays hidden.
		return fiber.NewError(fiber.StatusNotFound, "call not found")
	}

	var autoEnded bool
	switch data.Action {
	case "end":
		call, err = services.EndCall(profile, call)
	case "leave":
		call, autoEnded, err = services.LeaveCall(profile, call)
	}
	if err != nil {
		if errors.Is(err, services.ErrCallEnded) {
			return fiber.NewError(fiber.StatusGone, "this call has ended")
		} else if errors.Is(err, services.ErrNotCallFounder) {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if call.Status == models.CallStatusEnded && call.ChatID != nil {
		services.PostCallActivity(*call.ChatID, profile, models.MessageTypeCallEnd, map[string]any{
			"call_id": call.ID,
			"last":    call.EndedAt.Unix() - call.StartedAt.Unix(),
		})
	}

	return c.JSON(fiber.Map{
		"status":     call.Status,
		"auto_ended": autoEnded,
	})
}

func deleteCall(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	callId, err := c.ParamsInt("callId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	call, err := services.GetCall(uint(callId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "call not found")
	}
	if !services.CheckCallAccessible(profile, call) {
		return fiber.NewError(fiber.StatusNotFound, "call not found")
	}

	if err := services.DeleteCall(profile, call); err != nil {
		if errors.Is(err, services.ErrNotCallFounder) {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/wavedeck-app/wavedeck/pkg/internal/http/exts"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
	"github.com/wavedeck-app/wavedeck/pkg/internal/services"
)

func listCalendarEvent(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	since := time.Now().AddDate(0, -1, 0)
	until := time.Now().AddDate(0, 1, 0)
	if v := c.QueryInt("since", 0); v > 0 {
		since = time.Unix(int64(v), 0)
	}
	if v := c.QueryInt("until", 0); v > 0 {
		until = time.Unix(int64(v), 0)
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if events, err := services.ListCalendarEvent(profile, since, until); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	} else {
		return c.JSON(events)
	}
}

func getCalendarEvent(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	eventId, err := c.ParamsInt("eventId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	event, err := services.GetCalendarEvent(uint(eventId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "event not found")
	}

	attending := lo.ContainsBy(event.Participants, func(item models.EventParticipant) bool {
		return item.ProfileID == profile.ID
	})
	if event.CreatorID != profile.ID && !attending {
		return fiber.NewError(fiber.StatusNotFound, "event not found")
	}

	return c.JSON(event)
}

func createCalendarEvent(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Title        string     `json:"title" validate:"required,max=96"`
		Description  string     `json:"description" validate:"max=512"`
		Location     string     `json:"location" validate:"max=256"`
		StartsAt     time.Time  `json:"starts_at" validate:"required"`
		EndsAt       *time.Time `json:"ends_at"`
		Participants []uint     `json:"participants"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	event, err := services.NewCalendarEvent(profile, models.CalendarEvent{
		Title:       data.Title,
		Description: data.Description,
		Location:    data.Location,
		StartsAt:    data.StartsAt,
		EndsAt:      data.EndsAt,
	}, data.Participants)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(event)
}

func deleteCalendarEvent(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	eventId, err := c.ParamsInt("eventId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	event, err := services.GetCalendarEvent(uint(eventId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "event not found")
	}
	if event.CreatorID != profile.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the event creator can delete this event")
	}

	if err := services.DeleteCalendarEvent(event); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

package api

import (
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API").Use(authMiddleware)
	{
		api.Get("/users/me", getUserinfo)

		chats := api.Group("/chats").Name("Chats API")
		{
			chats.Get("/", listChat)
			chats.Get("/:chatId", getChat)
			chats.Post("/", createChat)
			chats.Post("/dm", createDirectChat)
			chats.Post("/:chatId/members", addChatMember)
			chats.Delete("/:chatId/members/me", leaveChat)
			chats.Delete("/:chatId", deleteChat)

			chats.Get("/:chatId/messages", listMessage)
			chats.Post("/:chatId/messages", newMessage)
			chats.Delete("/:chatId/messages/:messageId", deleteMessage)
		}

		calendar := api.Group("/calendar").Name("Calendar API")
		{
			calendar.Get("/", listCalendarEvent)
			calendar.Get("/:eventId", getCalendarEvent)
			calendar.Post("/", createCalendarEvent)
			calendar.Delete("/:eventId", deleteCalendarEvent)
		}

		calls := api.Group("/calls").Name("Calls API")
		{
			calls.Get("/", listCall)
			calls.Get("/:callId", getCallForJoin)
			calls.Post("/", createCall)
			calls.Post("/:callId/participation", updateParticipation)
			calls.Delete("/:callId", deleteCall)
		}
	}
}

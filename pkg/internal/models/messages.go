package models

import "gorm.io/datatypes"

const (
	MessageTypeText      = "messages.text"
	MessageTypeCallStart = "calls.start"
	MessageTypeCallEnd   = "calls.end"
)

type Message struct {
	BaseModel

	Uuid     string            `json:"uuid"`
	Body     datatypes.JSONMap `json:"body"`
	Type     string            `json:"type"`
	ChatID   uint              `json:"chat_id"`
	SenderID uint              `json:"sender_id"`
	Chat     Chat              `json:"chat"`
	Sender   ChatMember        `json:"sender"`
}

type MessageTextBody struct {
	Text         string `json:"text,omitempty"`
	RelatedUsers []uint `json:"related_users,omitempty"`
}

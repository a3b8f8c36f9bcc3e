package models

type ChatType = uint8

const (
	ChatTypeCommon = ChatType(iota)
	ChatTypeDirect
)

type Chat struct {
	BaseModel

	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        ChatType     `json:"type"`
	OwnerID     uint         `json:"owner_id"`
	Owner       Profile      `json:"owner"`
	Members     []ChatMember `json:"members"`
	Messages    []Message    `json:"messages"`
	Calls       []Call       `json:"calls"`
}

type ChatMember struct {
	BaseModel

	ChatID    uint    `json:"chat_id" gorm:"uniqueIndex:idx_chat_profile"`
	ProfileID uint    `json:"profile_id" gorm:"uniqueIndex:idx_chat_profile"`
	Chat      Chat    `json:"chat"`
	Profile   Profile `json:"profile"`

	Messages []Message `json:"messages" gorm:"foreignKey:SenderID"`
}

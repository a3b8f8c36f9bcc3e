package models

// Account is the authenticated principal decoded from the identity provider's
// bearer token. It is never persisted as-is; the matching Profile row is looked
// up (or lazily created) from it on first contact.
type Account struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
}

// Profile is this application's own record of a user, keyed by the identity
// provider's stable user id.
type Profile struct {
	BaseModel

	ExternalID string  `json:"external_id" gorm:"uniqueIndex"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Avatar     *string `json:"avatar"`

	Chats []ChatMember `json:"chats,omitempty"`
}

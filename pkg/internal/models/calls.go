package models

import "time"

type CallStatus = string

const (
	CallStatusActive = CallStatus("active")
	CallStatusEnded  = CallStatus("ended")
)

// Call is one video session backed by a room at the video provider. The room
// is allocated before the row is inserted; the row outlives the room once the
// call is ended.
type Call struct {
	BaseModel

	RoomName string `json:"room_name" gorm:"uniqueIndex"`
	RoomURL  string `json:"room_url"`
	Title    string `json:"title"`

	FounderID uint    `json:"founder_id"`
	Founder   Profile `json:"founder"`

	EventID *uint          `json:"event_id"`
	Event   *CalendarEvent `json:"event,omitempty"`
	ChatID  *uint          `json:"chat_id"`
	Chat    *Chat          `json:"chat,omitempty"`

	// EndedAt is set exactly when Status becomes ended.
	Status    CallStatus `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`

	Participants []CallParticipant `json:"participants" gorm:"constraint:OnDelete:CASCADE"`
}

// CallParticipant is one (call, profile) attendance record. LeftAt null means
// the profile is currently in the call.
type CallParticipant struct {
	BaseModel

	CallID    uint    `json:"call_id" gorm:"uniqueIndex:idx_call_profile"`
	ProfileID uint    `json:"profile_id" gorm:"uniqueIndex:idx_call_profile"`
	Profile   Profile `json:"profile"`

	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at"`
}

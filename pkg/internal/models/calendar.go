package models

import "time"

type CalendarEvent struct {
	BaseModel

	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`

	CreatorID uint    `json:"creator_id"`
	Creator   Profile `json:"creator"`

	// Back-link to a call started for this event, set best-effort when the
	// call is created.
	CallID *uint `json:"call_id"`

	Participants []EventParticipant `json:"participants" gorm:"foreignKey:EventID"`
}

type EventParticipant struct {
	BaseModel

	EventID   uint          `json:"event_id" gorm:"uniqueIndex:idx_event_profile"`
	ProfileID uint          `json:"profile_id" gorm:"uniqueIndex:idx_event_profile"`
	Event     CalendarEvent `json:"event"`
	Profile   Profile       `json:"profile"`
}

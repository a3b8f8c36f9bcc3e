package services

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wavedeck-app/wavedeck/pkg/internal/database"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

var (
	// ErrCallEnded rejects any transition out of the terminal state.
	ErrCallEnded = errors.New("this call has already ended")
	// ErrNotCallFounder guards founder-only mutations.
	ErrNotCallFounder = errors.New("only the call founder can do this")
)

func GetCall(id uint) (models.Call, error) {
	var call models.Call
	if err := database.C.
		Where(models.Call{BaseModel: models.BaseModel{ID: id}}).
		Preload("Founder").
		Preload("Participants").
		Preload("Participants.Profile").
		First(&call).Error; err != nil {
		return call, err
	}
	return call, nil
}

func ListCall(user models.Profile, take, offset int) ([]models.Call, error) {
	var calls []models.Call
	if err := database.C.
		Where(models.Call{FounderID: user.ID}).
		Limit(take).
		Offset(offset).
		Preload("Founder").
		Order("created_at DESC").
		Find(&calls).Error; err != nil {
		return calls, err
	}
	return calls, nil
}

type NewCallOptions struct {
	Title          string
	ParticipantIDs []uint
	EventID        *uint
	ChatID         *uint
}

// NewCall allocates a video room, persists the call and enrolls the initial
// participants. The founder is always enrolled, regardless of the supplied
// list. Room allocation failure aborts the whole operation; a failed
// enrollment does not, since missing rows heal on first join.
func NewCall(founder models.Profile, opts NewCallOptions) (models.Call, error) {
	participants := lo.Uniq(append([]uint{founder.ID}, opts.ParticipantIDs...))

	roomName, roomURL, err := AllocateCallRoom(DefaultCallRoomPolicy())
	if err != nil {
		return models.Call{}, err
	}

	call := models.Call{
		RoomName:  roomName,
		RoomURL:   roomURL,
		Title:     opts.Title,
		FounderID: founder.ID,
		EventID:   opts.EventID,
		ChatID:    opts.ChatID,
		Status:    models.CallStatusActive,
		StartedAt: time.Now(),
	}
	if err := database.C.Create(&call).Error; err != nil {
		// The reserved room is abandoned here; it expires on its own.
		return call, err
	}

	if err := EnrollCallParticipants(call, participants); err != nil {
		log.Warn().Err(err).Uint("call", call.ID).
			Msg("Some participants could not be enrolled, they will be enrolled on join instead.")
	}

	if opts.EventID != nil {
		if err := LinkCallToEvent(*opts.EventID, call.ID); err != nil {
			log.Warn().Err(err).Uint("event", *opts.EventID).Uint("call", call.ID).
				Msg("Unable to link call to calendar event.")
		}
	}

	call, _ = GetCall(call.ID)
	return call, nil
}

// EnrollCallParticipants inserts one attendance row per profile, skipping
// pairs that already exist.
func EnrollCallParticipants(call models.Call, profileIds []uint) error {
	now := time.Now()
	rows := lo.Map(profileIds, func(id uint, _ int) models.CallParticipant {
		return models.CallParticipant{
			CallID:    call.ID,
			ProfileID: id,
			JoinedAt:  now,
		}
	})

	return database.C.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "call_id"}, {Name: "profile_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

// CheckCallAccessible reports whether the user holds any of the access paths
// into the call: founder, enrolled participant, member of the linked chat, or
// participant of the linked calendar event.
func CheckCallAccessible(user models.Profile, call models.Call) bool {
	if call.FounderID == user.ID {
		return true
	}
	if lo.ContainsBy(call.Participants, func(item models.CallParticipant) bool {
		return item.ProfileID == user.ID
	}) {
		return true
	}

	var count int64
	if call.ChatID != nil {
		if err := database.C.Model(&models.ChatMember{}).
			Where("chat_id = ? AND profile_id = ?", *call.ChatID, user.ID).
			Count(&count).Error; err == nil && count > 0 {
			return true
		}
	}
	if call.EventID != nil {
		if err := database.C.Model(&models.EventParticipant{}).
			Where("event_id = ? AND profile_id = ?", *call.EventID, user.ID).
			Count(&count).Error; err == nil && count > 0 {
			return true
		}
	}

	return false
}

// GetCallForJoin authorizes the user against the call and hands back the call
// with a fresh join credential. A user with no access path gets the same
// record-not-found error as a missing call, so outsiders cannot probe for
// call existence.
func GetCallForJoin(user models.Profile, id uint) (models.Call, string, error) {
	call, err := GetCall(id)
	if err != nil {
		return call, "", err
	}

	if !CheckCallAccessible(user, call) {
		return models.Call{}, "", gorm.ErrRecordNotFound
	}
	if call.Status == models.CallStatusEnded {
		return call, "", ErrCallEnded
	}

	// Users reaching the call through a linked chat or event have no
	// attendance row yet; create it on the fly, and reopen the row for a
	// caller who left earlier so the active-participant count matches the
	// credential just issued. The upsert keyed on the (call, profile) pair
	// keeps concurrent joins from duplicating rows.
	now := time.Now()
	if err := database.C.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "call_id"}, {Name: "profile_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"joined_at": now,
			"left_at":   nil,
		}),
	}).Create(&models.CallParticipant{
		CallID:    call.ID,
		ProfileID: user.ID,
		JoinedAt:  now,
	}).Error; err != nil {
		return call, "", err
	}

	tk, err := EncodeCallToken(user, call)
	if err != nil {
		return call, "", err
	}

	call, _ = GetCall(call.ID)
	return call, tk, nil
}

func finishCall(call models.Call) (models.Call, error) {
	now := time.Now()
	call.Status = models.CallStatusEnded
	call.EndedAt = &now

	if err := database.C.Save(&call).Error; err != nil {
		return call, err
	}
	if err := database.C.Model(&models.CallParticipant{}).
		Where("call_id = ? AND left_at IS NULL", call.ID).
		Update("left_at", now).Error; err != nil {
		return call, err
	}

	ReleaseCallRoom(call.RoomName)

	call, _ = GetCall(call.ID)
	return call, nil
}

// EndCall moves the call to its terminal state, marks every remaining
// participant as left and releases the room. Founder only.
func EndCall(user models.Profile, call models.Call) (models.Call, error) {
	if call.Status == models.CallStatusEnded {
		return call, ErrCallEnded
	}
	if call.FounderID != user.ID {
		return call, ErrNotCallFounder
	}

	return finishCall(call)
}

// LeaveCall marks the user's own attendance row as left. Leaving twice is a
// no-op. When the last active participant leaves, the call is ended with the
// same side effects as an explicit end; the returned flag reports that
// outcome so callers can tell "left, others remain" from "left, call over".
func LeaveCall(user models.Profile, call models.Call) (models.Call, bool, error) {
	if call.Status == models.CallStatusEnded {
		return call, false, ErrCallEnded
	}

	if err := database.C.Model(&models.CallParticipant{}).
		Where("call_id = ? AND profile_id = ? AND left_at IS NULL", call.ID, user.ID).
		Update("left_at", time.Now()).Error; err != nil {
		return call, false, err
	}

	var remaining int64
	if err := database.C.Model(&models.CallParticipant{}).
		Where("call_id = ? AND left_at IS NULL", call.ID).
		Count(&remaining).Error; err != nil {
		return call, false, err
	}
	if remaining == 0 {
		call, err := finishCall(call)
		return call, true, err
	}

	call, _ = GetCall(call.ID)
	return call, false, nil
}

// DeleteCall removes the call record entirely; attendance rows go with it
// through the store's cascade rule. Founder only.
func DeleteCall(user models.Profile, call models.Call) error {
	if call.FounderID != user.ID {
		return ErrNotCallFounder
	}

	ReleaseCallRoom(call.RoomName)

	return database.C.Delete(&call).Error
}

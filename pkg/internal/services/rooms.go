package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

// RoomServiceClient is the slice of the video provider's room API the call
// coordinator needs. *lksdk.RoomServiceClient satisfies it.
type RoomServiceClient interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
	DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error)
}

var Lk RoomServiceClient

// ErrRoomUnavailable marks a failure of the video room provider itself.
var ErrRoomUnavailable = errors.New("video room provider unavailable")

func SetupLiveKit() {
	host := "https://" + viper.GetString("calling.endpoint")

	Lk = lksdk.NewRoomServiceClient(
		host,
		viper.GetString("calling.api_key"),
		viper.GetString("calling.api_secret"),
	)
}

// CallRoomPolicy is carried as room metadata so clients can read back of the
// in-room feature toggles.
type CallRoomPolicy struct {
	Private         bool      `json:"private"`
	MaxParticipants uint32    `json:"max_participants"`
	ScreenShare     bool      `json:"screen_share"`
	ChatEnabled     bool      `json:"chat_enabled"`
	KnockingEnabled bool      `json:"knocking_enabled"`
	ExpiresAt       time.Time `json:"expires_at"`
}

func DefaultCallRoomPolicy() CallRoomPolicy {
	maxParticipants := viper.GetUint32("calling.max_participants")
	if maxParticipants == 0 {
		maxParticipants = 6
	}
	duration := viper.GetDuration("calling.room_duration")
	if duration == 0 {
		duration = 24 * time.Hour
	}

	return CallRoomPolicy{
		Private:         true,
		MaxParticipants: maxParticipants,
		ScreenShare:     true,
		ChatEnabled:     true,
		KnockingEnabled: false,
		ExpiresAt:       time.Now().Add(duration),
	}
}

// AllocateCallRoom reserves a room at the video provider under a fresh unique
// name. Failures here are fatal to call creation, in contrast to the
// best-effort ReleaseCallRoom on the way down.
func AllocateCallRoom(policy CallRoomPolicy) (string, string, error) {
	name := uuid.NewString()
	metadata, _ := jsoniter.Marshal(policy)

	_, err := Lk.CreateRoom(context.Background(), &livekit.CreateRoomRequest{
		Name:            name,
		EmptyTimeout:    uint32(time.Until(policy.ExpiresAt).Seconds()),
		MaxParticipants: policy.MaxParticipants,
		Metadata:        string(metadata),
	})
	if err != nil {
		return name, "", fmt.Errorf("%w: %v", ErrRoomUnavailable, err)
	}

	url := fmt.Sprintf("https://%s/%s", viper.GetString("calling.endpoint"), name)
	return name, url, nil
}

// ReleaseCallRoom tears the room down without failing the caller; an
// undeleted room expires on its own at the provider side.
func ReleaseCallRoom(roomName string) {
	if _, err := Lk.DeleteRoom(context.Background(), &livekit.DeleteRoomRequest{
		Room: roomName,
	}); err != nil {
		log.Error().Err(err).Str("room", roomName).Msg("Unable to delete room at livekit side")
	}
}

// EncodeCallToken issues the short-lived per-user join credential for the
// call's room. The credential carries its own expiry, independent of the
// room's.
func EncodeCallToken(user models.Profile, call models.Call) (string, error) {
	isOwner := user.ID == call.FounderID

	grant := &auth.VideoGrant{
		Room:      call.RoomName,
		RoomJoin:  true,
		RoomAdmin: isOwner,
	}

	metadata, _ := jsoniter.Marshal(user)

	duration := viper.GetDuration("calling.token_duration")
	if duration == 0 {
		duration = time.Hour
	}
	tk := auth.NewAccessToken(viper.GetString("calling.api_key"), viper.GetString("calling.api_secret"))
	tk.AddGrant(grant).
		SetIdentity(fmt.Sprintf("%d", user.ID)).
		SetName(user.Name).
		SetMetadata(string(metadata)).
		SetValidFor(duration)

	return tk.ToJWT()
}

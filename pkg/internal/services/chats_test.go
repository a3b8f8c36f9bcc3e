package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

func TestNewDirectChatSeatsBothSides(t *testing.T) {
	setupTestDatabase(t)

	u1 := createTestProfile(t, "u1")
	u2 := createTestProfile(t, "u2")

	chat, err := NewDirectChat(u1, u2, models.Chat{Name: "DM"})
	require.NoError(t, err)
	assert.Equal(t, models.ChatTypeDirect, chat.Type)
	assert.Len(t, chat.Members, 2)
}

func TestGetChatIdentityRejectsOutsiders(t *testing.T) {
	setupTestDatabase(t)

	u1 := createTestProfile(t, "u1")
	u2 := createTestProfile(t, "u2")

	chat, err := NewChat(u1, models.Chat{Name: "crew"})
	require.NoError(t, err)

	_, _, err = GetChatIdentity(u1, chat.ID)
	require.NoError(t, err)

	_, _, err = GetChatIdentity(u2, chat.ID)
	assert.Error(t, err)
}

func TestAddChatMemberIsIdempotent(t *testing.T) {
	setupTestDatabase(t)

	u1 := createTestProfile(t, "u1")
	u2 := createTestProfile(t, "u2")

	chat, err := NewChat(u1, models.Chat{Name: "crew"})
	require.NoError(t, err)

	require.NoError(t, AddChatMember(u2, chat))
	require.NoError(t, AddChatMember(u2, chat))

	chat, err = GetChat(chat.ID)
	require.NoError(t, err)
	assert.Len(t, chat.Members, 2)
}

func TestMessagesAreScopedToChat(t *testing.T) {
	setupTestDatabase(t)

	u1 := createTestProfile(t, "u1")

	chat, err := NewChat(u1, models.Chat{Name: "crew"})
	require.NoError(t, err)

	_, member, err := GetChatIdentity(u1, chat.ID)
	require.NoError(t, err)

	message, err := NewMessage(models.Message{
		Body:     map[string]any{"text": "hello"},
		Type:     models.MessageTypeText,
		ChatID:   chat.ID,
		SenderID: member.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, message.Uuid)

	messages, err := ListMessage(chat, 10, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.EqualValues(t, 1, CountMessage(chat))

	other, err := NewChat(u1, models.Chat{Name: "other"})
	require.NoError(t, err)
	messages, err = ListMessage(other, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

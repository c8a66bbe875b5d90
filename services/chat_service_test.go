package services

import (
	"testing"

	"sugurta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateRoomReturnsSameRoom(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")

	s := NewChatService(db, NewNotifier(nil))
	room, err := s.GetOrCreateRoom(clientID, &models.CreateRoomRequest{PeerID: providerID})
	require.NoError(t, err)
	assert.Equal(t, clientID, room.ClientID)
	assert.Equal(t, providerID, room.ProviderID)

	// Провайдер открывает ту же пару — комната одна
	again, err := s.GetOrCreateRoom(providerID, &models.CreateRoomRequest{PeerID: clientID})
	require.NoError(t, err)
	assert.Equal(t, room.ID, again.ID)
}

func TestSendMessageStoredEncrypted(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")

	s := NewChatService(db, NewNotifier(nil))
	room, err := s.GetOrCreateRoom(clientID, &models.CreateRoomRequest{PeerID: providerID})
	require.NoError(t, err)

	const text = "Добрый день, готовы обсудить условия?"
	message, err := s.SendMessage(room.ID, clientID, &models.SendMessageRequest{Content: text})
	require.NoError(t, err)
	assert.Equal(t, text, message.Content)
	assert.Equal(t, providerID, message.RecipientID)

	// В БД лежит шифртекст, не открытый текст
	var stored models.ChatMessage
	require.NoError(t, db.First(&stored, message.ID).Error)
	assert.NotEqual(t, text, stored.Content)

	messages, err := s.ListMessages(room.ID, providerID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, text, messages[0].Content)
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")

	s := NewChatService(db, NewNotifier(nil))
	room, err := s.GetOrCreateRoom(clientID, &models.CreateRoomRequest{PeerID: providerID})
	require.NoError(t, err)

	_, err = s.SendMessage(room.ID, clientID, &models.SendMessageRequest{Content: "раз"})
	require.NoError(t, err)
	_, err = s.SendMessage(room.ID, clientID, &models.SendMessageRequest{Content: "два"})
	require.NoError(t, err)

	unread, err := s.UnreadCount(providerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	require.NoError(t, s.MarkRead(room.ID, providerID))

	unread, err = s.UnreadCount(providerID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)
}

func TestChatRoomAccessControl(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")
	strangerID := createUser(t, db, models.RoleProvider, "stranger@test.uz")

	s := NewChatService(db, NewNotifier(nil))
	room, err := s.GetOrCreateRoom(clientID, &models.CreateRoomRequest{PeerID: providerID})
	require.NoError(t, err)

	_, err = s.SendMessage(room.ID, strangerID, &models.SendMessageRequest{Content: "чужой"})
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindAuthorization, se.Kind)

	_, err = s.ListMessages(room.ID, strangerID, 0)
	require.Error(t, err)
}

package services

import (
	"errors"
	"fmt"

	"sugurta/models"
	"sugurta/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatService переписка принятых сторон. Текст сообщений хранится в БД
// зашифрованным (AES-GCM), наружу уходит открытый текст.
type ChatService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewChatService(db *gorm.DB, notifier *Notifier) *ChatService {
	return &ChatService{DB: db, Notifier: notifier}
}

// GetOrCreateRoom возвращает комнату пары клиент-провайдер, создавая
// ее при первом обращении
func (s *ChatService) GetOrCreateRoom(userID uint, req *models.CreateRoomRequest) (*models.ChatRoom, error) {
	if req.PeerID == userID {
		return nil, NewValidationError("Нельзя создать комнату с самим собой")
	}

	var user, peer models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	if err := s.DB.First(&peer, req.PeerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Собеседник не найден")
		}
		return nil, err
	}

	clientID, providerID := userID, req.PeerID
	if user.Role == models.RoleProvider {
		clientID, providerID = req.PeerID, userID
	}

	var room models.ChatRoom
	query := s.DB.Where("client_id = ? AND provider_id = ?", clientID, providerID)
	if req.RequestID != nil {
		query = query.Where("request_id = ?", *req.RequestID)
	}
	if err := query.First(&room).Error; err == nil {
		return &room, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room = models.ChatRoom{
		PublicID:   uuid.NewString(),
		ClientID:   clientID,
		ProviderID: providerID,
		RequestID:  req.RequestID,
	}
	if err := s.DB.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// roomForUser проверяет, что пользователь — участник комнаты
func (s *ChatService) roomForUser(roomID, userID uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Комната не найдена")
		}
		return nil, err
	}
	if room.ClientID != userID && room.ProviderID != userID {
		return nil, NewAuthorizationError("Вы не участник этой комнаты")
	}
	return &room, nil
}

// SendMessage сохраняет сообщение и оповещает получателя
func (s *ChatService) SendMessage(roomID, senderID uint, req *models.SendMessageRequest) (*models.ChatMessage, error) {
	room, err := s.roomForUser(roomID, senderID)
	if err != nil {
		return nil, err
	}

	recipientID := room.ClientID
	if senderID == room.ClientID {
		recipientID = room.ProviderID
	}

	encrypted, err := utils.EncryptMessage(req.Content)
	if err != nil {
		return nil, err
	}

	message := models.ChatMessage{
		RoomID:      roomID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     encrypted,
	}
	if err := s.DB.Create(&message).Error; err != nil {
		return nil, err
	}

	s.Notifier.NotifyUser(recipientID, EventNewMessage, NewMessageEvent{
		RoomID:      roomID,
		MessageID:   message.ID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     req.Content,
		Timestamp:   message.CreatedAt,
		IsUnread:    true,
	})
	s.Notifier.NotifyUser(recipientID, EventChatNotification, ChatNotificationEvent{
		RoomID:  roomID,
		Message: "Новое сообщение",
	})

	// Наружу отдаем открытый текст
	message.Content = req.Content
	return &message, nil
}

// ListMessages возвращает сообщения комнаты (расшифрованные)
func (s *ChatService) ListMessages(roomID, userID uint, limit int) ([]models.ChatMessage, error) {
	if _, err := s.roomForUser(roomID, userID); err != nil {
		return nil, err
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var messages []models.ChatMessage
	if err := s.DB.Where("room_id = ?", roomID).Order("created_at").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}
	for i := range messages {
		plain, err := utils.DecryptMessage(messages[i].Content)
		if err != nil {
			utils.LogError(err, fmt.Sprintf("decrypt message %d", messages[i].ID))
			plain = ""
		}
		messages[i].Content = plain
	}
	return messages, nil
}

// MarkRead помечает входящие сообщения комнаты прочитанными
func (s *ChatService) MarkRead(roomID, userID uint) error {
	if _, err := s.roomForUser(roomID, userID); err != nil {
		return err
	}
	return s.DB.Model(&models.ChatMessage{}).
		Where("room_id = ? AND recipient_id = ? AND is_read = ?", roomID, userID, false).
		Update("is_read", true).Error
}

// ListRooms возвращает комнаты пользователя
func (s *ChatService) ListRooms(userID uint) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.Where("client_id = ? OR provider_id = ?", userID, userID).
		Order("updated_at DESC").Find(&rooms).Error
	return rooms, err
}

// UnreadCount возвращает число непрочитанных сообщений пользователя
func (s *ChatService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.ChatMessage{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

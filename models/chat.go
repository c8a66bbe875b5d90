package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatRoom комната переписки клиента и провайдера, опционально
// привязана к заявке
type ChatRoom struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	PublicID   string `json:"public_id" gorm:"uniqueIndex;not null"`
	ClientID   uint   `json:"client_id" gorm:"not null;index:idx_room_client"`
	ProviderID uint   `json:"provider_id" gorm:"not null;index:idx_room_provider"`
	RequestID  *uint  `json:"request_id" gorm:"index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Client   User `json:"-" gorm:"foreignKey:ClientID;references:ID"`
	Provider User `json:"-" gorm:"foreignKey:ProviderID;references:ID"`
}

// ChatMessage сообщение в комнате. Content хранится в БД в
// зашифрованном виде (AES-GCM), наружу отдаётся открытый текст.
type ChatMessage struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	RoomID      uint   `json:"room_id" gorm:"not null;index:idx_message_room"`
	SenderID    uint   `json:"sender_id" gorm:"not null"`
	RecipientID uint   `json:"recipient_id" gorm:"not null;index:idx_message_recipient"`
	Content     string `json:"content" gorm:"type:text;not null"`
	IsRead      bool   `json:"is_read" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// SendMessageRequest структура для отправки сообщения
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateRoomRequest структура для создания комнаты
type CreateRoomRequest struct {
	PeerID    uint  `json:"peer_id" binding:"required"`
	RequestID *uint `json:"request_id"`
}

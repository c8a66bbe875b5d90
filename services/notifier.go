package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sugurta/utils"

	"github.com/go-redis/redis/v8"
)

// Имена событий реального времени. Это контракт с socket-шлюзом,
// менять без согласования нельзя.
const (
	EventNewBid              = "new_bid"
	EventBidAccepted         = "bid_accepted"
	EventOfferAccepted       = "offer_accepted"
	EventNewMessage          = "new_message"
	EventNewInsuranceRequest = "new_insurance_request"
	EventChatNotification    = "chat_notification"
)

// Payload'ы событий. Поля в camelCase — так их ждёт фронтенд.

type NewBidEvent struct {
	RequestID    uint    `json:"requestId"`
	ClientID     uint    `json:"clientId"`
	ProviderID   uint    `json:"providerId"`
	ProviderName string  `json:"providerName"`
	Amount       float64 `json:"amount"`
	Percentage   float64 `json:"percentage"`
	Message      string  `json:"message"`
}

type BidAcceptedEvent struct {
	BidID        uint    `json:"bidId"`
	RequestID    uint    `json:"requestId"`
	ProviderID   uint    `json:"providerId"`
	RequestTitle string  `json:"requestTitle"`
	Amount       float64 `json:"amount"`
	Message      string  `json:"message"`
}

type OfferAcceptedEvent struct {
	OfferID    uint `json:"offerId"`
	ClientID   uint `json:"clientId"`
	ProviderID uint `json:"providerId"`
}

type NewMessageEvent struct {
	RoomID      uint      `json:"roomId"`
	MessageID   uint      `json:"messageId"`
	SenderID    uint      `json:"senderId"`
	RecipientID uint      `json:"recipientId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	IsUnread    bool      `json:"isUnread"`
}

type NewInsuranceRequestEvent struct {
	RequestID   uint    `json:"requestId"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	ClientID    uint    `json:"clientId"`
	Description string  `json:"description"`
}

type ChatNotificationEvent struct {
	RoomID  uint   `json:"roomId"`
	Message string `json:"message"`
}

// Notifier рассылает события через Redis pub/sub. Socket-шлюзы
// подписаны на каналы notify:user:<id> и пробрасывают события в
// активные сессии. Доставка best-effort: офлайновый получатель
// узнает о изменениях при следующем запросе к REST.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

type eventEnvelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// NotifyUser публикует событие для конкретного пользователя.
// Ошибки публикации логируются и не прерывают вызвавшую операцию.
func (n *Notifier) NotifyUser(userID uint, event string, payload interface{}) {
	if n == nil || n.rdb == nil {
		return
	}
	body, err := json.Marshal(eventEnvelope{Event: event, Payload: payload})
	if err != nil {
		utils.LogError(err, "notifier marshal "+event)
		return
	}
	channel := fmt.Sprintf("notify:user:%d", userID)
	if err := n.rdb.Publish(context.Background(), channel, body).Err(); err != nil {
		utils.LogError(err, "notifier publish "+event)
	}
}

// NotifyProviders публикует событие в общий канал провайдеров
// (новые заявки на витрине)
func (n *Notifier) NotifyProviders(event string, payload interface{}) {
	if n == nil || n.rdb == nil {
		return
	}
	body, err := json.Marshal(eventEnvelope{Event: event, Payload: payload})
	if err != nil {
		utils.LogError(err, "notifier marshal "+event)
		return
	}
	if err := n.rdb.Publish(context.Background(), "notify:providers", body).Err(); err != nil {
		utils.LogError(err, "notifier publish "+event)
	}
}

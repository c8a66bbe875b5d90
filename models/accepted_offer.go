package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы действующего полиса
const (
	AcceptedOfferStatusActive    = "active"
	AcceptedOfferStatusCancelled = "cancelled"
	AcceptedOfferStatusExpired   = "expired"
	AcceptedOfferStatusCompleted = "completed"
)

func ValidAcceptedOfferStatus(s string) bool {
	switch s {
	case AcceptedOfferStatusActive, AcceptedOfferStatusCancelled,
		AcceptedOfferStatusExpired, AcceptedOfferStatusCompleted:
		return true
	default:
		return false
	}
}

// AcceptedOffer действующий полис: результат принятия предложения,
// продукта с витрины или финализации группового страхования.
// Ровно одна из ссылок BidID / OfferID / GroupDealID заполнена.
type AcceptedOffer struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PublicID string `json:"public_id" gorm:"uniqueIndex;not null"`

	BidID       *uint `json:"bid_id" gorm:"index"`
	OfferID     *uint `json:"offer_id" gorm:"index"`
	GroupDealID *uint `json:"group_deal_id" gorm:"index"`
	RequestID   *uint `json:"request_id" gorm:"index"`

	ClientID   uint `json:"client_id" gorm:"not null;index:idx_policy_client"`
	ProviderID uint `json:"provider_id" gorm:"not null;index:idx_policy_provider"`

	CoverageAmount  float64   `json:"coverage_amount" gorm:"not null"`
	MonthlyPremium  float64   `json:"monthly_premium" gorm:"not null"`
	StartDate       time.Time `json:"start_date"`
	AdditionalNotes string    `json:"additional_notes" gorm:"type:text"`

	Status string `json:"status" gorm:"default:'active';index:idx_policy_status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Client   User `json:"-" gorm:"foreignKey:ClientID;references:ID"`
	Provider User `json:"-" gorm:"foreignKey:ProviderID;references:ID"`
}

// AcceptedOfferListResponse список полисов
type AcceptedOfferListResponse struct {
	AcceptedOffers []AcceptedOffer `json:"accepted_offers"`
	Total          int64           `json:"total"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы предложения провайдера. pending -> accepted | rejected,
// обратных переходов нет.
const (
	BidStatusPending  = "pending"
	BidStatusAccepted = "accepted"
	BidStatusRejected = "rejected"
)

func ValidBidStatus(s string) bool {
	switch s {
	case BidStatusPending, BidStatusAccepted, BidStatusRejected:
		return true
	default:
		return false
	}
}

// Bid предложение провайдера по заявке
type Bid struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	RequestID  uint `json:"request_id" gorm:"not null;index:idx_bid_request"`
	ProviderID uint `json:"provider_id" gorm:"not null;index:idx_bid_provider"`

	Amount     float64 `json:"amount" gorm:"not null"`
	Percentage float64 `json:"percentage" gorm:"not null"` // доля от requested_amount
	Premium    float64 `json:"premium" gorm:"not null"`    // месячная премия
	Terms      string  `json:"terms" gorm:"type:text"`

	Status string `json:"status" gorm:"default:'pending';index:idx_bid_status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Provider User             `json:"-" gorm:"foreignKey:ProviderID;references:ID"`
	Request  InsuranceRequest `json:"-" gorm:"foreignKey:RequestID;references:ID"`
}

// SubmitBidRequest структура для подачи предложения
type SubmitBidRequest struct {
	RequestID  uint    `json:"request_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
	Percentage float64 `json:"percentage" binding:"required"`
	Premium    float64 `json:"premium" binding:"required"`
	Terms      string  `json:"terms"`
}

// BidListResponse список предложений
type BidListResponse struct {
	Bids  []Bid `json:"bids"`
	Total int64 `json:"total"`
}

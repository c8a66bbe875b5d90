package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Статусы страховой заявки. Переходы только вперёд:
// open -> bidding -> awarded -> completed, open -> cancelled.
const (
	RequestStatusOpen      = "open"
	RequestStatusBidding   = "bidding"
	RequestStatusAwarded   = "awarded"
	RequestStatusCompleted = "completed"
	RequestStatusCancelled = "cancelled"
)

func ValidRequestStatus(s string) bool {
	switch s {
	case RequestStatusOpen, RequestStatusBidding, RequestStatusAwarded,
		RequestStatusCompleted, RequestStatusCancelled:
		return true
	default:
		return false
	}
}

// RequestStatusCanTransition проверяет допустимость перехода статуса заявки
func RequestStatusCanTransition(from, to string) bool {
	switch from {
	case RequestStatusOpen:
		return to == RequestStatusBidding || to == RequestStatusAwarded ||
			to == RequestStatusCompleted || to == RequestStatusCancelled
	case RequestStatusBidding:
		return to == RequestStatusAwarded || to == RequestStatusCompleted ||
			to == RequestStatusCancelled
	case RequestStatusAwarded:
		// Групповая финализация может завершить уже присужденную заявку
		return to == RequestStatusCompleted
	default:
		// completed, cancelled — терминальные
		return false
	}
}

// InsuranceRequest заявка клиента на страхование
type InsuranceRequest struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PublicID string `json:"public_id" gorm:"uniqueIndex;not null"`
	ClientID uint   `json:"client_id" gorm:"not null;index:idx_client_requests"`

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category" gorm:"not null;index:idx_request_category"`
	Priority    string `json:"priority" gorm:"default:'normal'"`

	// Детали актива храним как JSONB: состав полей зависит от категории
	AssetDetails datatypes.JSON `json:"asset_details" gorm:"type:jsonb"`

	RequestedAmount float64 `json:"requested_amount" gorm:"not null"`
	CoverageType    string  `json:"coverage_type"`
	RiskLevel       string  `json:"risk_level" gorm:"index:idx_request_risk"`

	MinimumBidPercentage  float64    `json:"minimum_bid_percentage" gorm:"default:10"`
	BidDeadline           *time.Time `json:"bid_deadline"`
	AllowPartialBids      bool       `json:"allow_partial_bids" gorm:"default:false"`
	GroupInsuranceAllowed bool       `json:"group_insurance_allowed" gorm:"default:false"`
	MinProviders          int        `json:"min_providers" gorm:"default:0"`
	MaxProviders          int        `json:"max_providers" gorm:"default:0"`
	GroupDeadline         *time.Time `json:"group_deadline"`

	Status   string `json:"status" gorm:"default:'open';index:idx_request_status"`
	BidCount int    `json:"bid_count" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связь с клиентом (не обязательно подгружать)
	Client User `json:"-" gorm:"foreignKey:ClientID;references:ID"`
}

// CreateRequestRequest структура для создания заявки
type CreateRequestRequest struct {
	Title                 string         `json:"title" binding:"required"`
	Description           string         `json:"description"`
	Category              string         `json:"category" binding:"required"`
	Priority              string         `json:"priority"`
	AssetDetails          datatypes.JSON `json:"asset_details"`
	RequestedAmount       float64        `json:"requested_amount" binding:"required"`
	CoverageType          string         `json:"coverage_type"`
	RiskLevel             string         `json:"risk_level"`
	MinimumBidPercentage  float64        `json:"minimum_bid_percentage"`
	BidDeadline           *time.Time     `json:"bid_deadline"`
	AllowPartialBids      bool           `json:"allow_partial_bids"`
	GroupInsuranceAllowed bool           `json:"group_insurance_allowed"`
	MinProviders          int            `json:"min_providers"`
	MaxProviders          int            `json:"max_providers"`
	GroupDeadline         *time.Time     `json:"group_deadline"`
}

// RequestListResponse список заявок с пагинацией
type RequestListResponse struct {
	Requests   []InsuranceRequest `json:"requests"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// RequestStatsResponse статистика заявок клиента
type RequestStatsResponse struct {
	TotalRequests     int64    `json:"total_requests"`
	OpenRequests      int64    `json:"open_requests"`
	BiddingRequests   int64    `json:"bidding_requests"`
	AwardedRequests   int64    `json:"awarded_requests"`
	CompletedRequests int64    `json:"completed_requests"`
	CancelledRequests int64    `json:"cancelled_requests"`
	TotalBids         int64    `json:"total_bids"`
	MarketAverageRate *float64 `json:"market_average_rate,omitempty"`
}

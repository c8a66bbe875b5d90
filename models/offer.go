package models

import (
	"time"

	"gorm.io/gorm"
)

// Offer готовый продукт провайдера на витрине маркетплейса.
// Клиент принимает его напрямую, без торгов.
type Offer struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	PublicID   string `json:"public_id" gorm:"uniqueIndex;not null"`
	ProviderID uint   `json:"provider_id" gorm:"not null;index:idx_offer_provider"`

	Title          string  `json:"title" gorm:"not null"`
	Description    string  `json:"description" gorm:"type:text"`
	Category       string  `json:"category" gorm:"not null;index:idx_offer_category"`
	CoverageType   string  `json:"coverage_type"`
	MinAmount      float64 `json:"min_amount" gorm:"not null"`
	MaxAmount      float64 `json:"max_amount" gorm:"not null"`
	MonthlyPremium float64 `json:"monthly_premium" gorm:"not null"`
	Active         bool    `json:"active" gorm:"default:true;index:idx_offer_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Provider User `json:"-" gorm:"foreignKey:ProviderID;references:ID"`
}

// CreateOfferRequest структура для создания продукта
type CreateOfferRequest struct {
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description"`
	Category       string  `json:"category" binding:"required"`
	CoverageType   string  `json:"coverage_type"`
	MinAmount      float64 `json:"min_amount" binding:"required"`
	MaxAmount      float64 `json:"max_amount" binding:"required"`
	MonthlyPremium float64 `json:"monthly_premium" binding:"required"`
}

// AcceptOfferRequest структура для принятия продукта клиентом
type AcceptOfferRequest struct {
	CoverageAmount  float64   `json:"coverage_amount" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	AdditionalNotes string    `json:"additional_notes"`
}

// OfferListResponse список продуктов с пагинацией
type OfferListResponse struct {
	Offers     []Offer `json:"offers"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

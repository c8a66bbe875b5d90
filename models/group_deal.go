package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы группового страхования. forming -> ready -> completed,
// forming -> cancelled. После ready новые участники не принимаются.
const (
	GroupDealStatusForming   = "forming"
	GroupDealStatusReady     = "ready"
	GroupDealStatusCompleted = "completed"
	GroupDealStatusCancelled = "cancelled"
)

func ValidGroupDealStatus(s string) bool {
	switch s {
	case GroupDealStatusForming, GroupDealStatusReady,
		GroupDealStatusCompleted, GroupDealStatusCancelled:
		return true
	default:
		return false
	}
}

// GroupInsuranceDeal групповое покрытие одной заявки несколькими провайдерами
type GroupInsuranceDeal struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	PublicID  string `json:"public_id" gorm:"uniqueIndex;not null"`
	RequestID uint   `json:"request_id" gorm:"uniqueIndex;not null"` // одна группа на заявку
	ClientID  uint   `json:"client_id" gorm:"not null;index:idx_group_client"`

	TotalAmount     float64 `json:"total_amount" gorm:"not null"` // целевое покрытие
	MinParticipants int     `json:"min_participants" gorm:"not null"`
	MaxParticipants int     `json:"max_participants" gorm:"not null"`

	CurrentParticipants int     `json:"current_participants" gorm:"default:0"`
	TotalCoverage       float64 `json:"total_coverage" gorm:"default:0"`

	Status   string     `json:"status" gorm:"default:'forming';index:idx_group_status"`
	Deadline *time.Time `json:"deadline"`

	// Версия для оптимистичной блокировки при конкурентных join
	Version int `json:"-" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Request InsuranceRequest `json:"-" gorm:"foreignKey:RequestID;references:ID"`
	Client  User             `json:"-" gorm:"foreignKey:ClientID;references:ID"`
}

// GroupParticipant доля провайдера в групповом покрытии. Неизменяема
// после вступления, частичный выход не поддерживается.
type GroupParticipant struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	GroupID    uint `json:"group_id" gorm:"not null;index:idx_participant_group"`
	ProviderID uint `json:"provider_id" gorm:"not null;index:idx_participant_provider"`

	CoverageAmount float64 `json:"coverage_amount" gorm:"not null"`
	Premium        float64 `json:"premium" gorm:"not null"`
	Terms          string  `json:"terms" gorm:"type:text"`

	JoinedAt  time.Time      `json:"joined_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Group    GroupInsuranceDeal `json:"-" gorm:"foreignKey:GroupID;references:ID"`
	Provider User               `json:"-" gorm:"foreignKey:ProviderID;references:ID"`
}

// CreateGroupDealRequest структура для создания группы
type CreateGroupDealRequest struct {
	RequestID       uint       `json:"request_id" binding:"required"`
	TotalAmount     float64    `json:"total_amount" binding:"required"`
	MinParticipants int        `json:"min_participants" binding:"required"`
	MaxParticipants int        `json:"max_participants" binding:"required"`
	Deadline        *time.Time `json:"deadline"`
}

// JoinGroupRequest структура для вступления провайдера в группу
type JoinGroupRequest struct {
	CoverageAmount float64 `json:"coverage_amount" binding:"required"`
	Premium        float64 `json:"premium" binding:"required"`
	Terms          string  `json:"terms"`
}

// GroupDealResponse группа вместе с участниками
type GroupDealResponse struct {
	Deal         GroupInsuranceDeal `json:"deal"`
	Participants []GroupParticipant `json:"participants"`
}

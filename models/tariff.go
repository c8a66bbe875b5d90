package models

import "time"

// MarketTariff базовый рыночный тариф по категории и уровню риска.
// Таблица полностью перезаписывается парсером по крону.
type MarketTariff struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Category       string    `json:"category" gorm:"not null;index:idx_tariff_category"`
	RiskLevel      string    `json:"risk_level"`
	BaseAnnualRate float64   `json:"base_annual_rate" gorm:"not null"` // % от страховой суммы в год
	SourceURL      string    `json:"source_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// Category справочник категорий страхования (сидируется при старте)
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null"`
}

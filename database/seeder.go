package database

import (
	"sugurta/models"

	"gorm.io/gorm"
)

// SeedCategories наполняет справочник категорий страхования
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Имущество", Slug: "property"},
		{Name: "Автотранспорт", Slug: "auto"},
		{Name: "Здоровье", Slug: "health"},
		{Name: "Жизнь", Slug: "life"},
		{Name: "Бизнес", Slug: "business"},
		{Name: "Грузы", Slug: "cargo"},
		{Name: "Путешествия", Slug: "travel"},
	}
	return db.Create(&categories).Error
}

package database

import (
	"sugurta/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.InsuranceRequest{},
		&models.Bid{},
		&models.Offer{},
		&models.AcceptedOffer{},
		&models.GroupInsuranceDeal{},
		&models.GroupParticipant{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.MarketTariff{},
	); err != nil {
		return err
	}

	// Уникальность активного участия провайдера в группе
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_group_provider_once
		ON group_participants(group_id, provider_id)
		WHERE deleted_at IS NULL`).Error; err != nil {
		return err
	}

	// Один действующий полис на клиента по продукту витрины: страхует
	// проверку в AcceptOffer от гонки двух одновременных принятий
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_offer_client_active
		ON accepted_offers(offer_id, client_id)
		WHERE status = 'active' AND offer_id IS NOT NULL AND deleted_at IS NULL`).Error; err != nil {
		return err
	}

	return nil
}

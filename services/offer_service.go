package services

import (
	"errors"
	"time"

	"sugurta/models"
	"sugurta/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OfferService продукты провайдеров на витрине и действующие полисы
type OfferService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewOfferService(db *gorm.DB, notifier *Notifier) *OfferService {
	return &OfferService{DB: db, Notifier: notifier}
}

// CreateOffer публикует продукт провайдера
func (s *OfferService) CreateOffer(providerID uint, req *models.CreateOfferRequest) (*models.Offer, error) {
	if req.MinAmount <= 0 || req.MaxAmount < req.MinAmount {
		return nil, NewValidationError("Неверный диапазон страховой суммы")
	}
	if req.MonthlyPremium <= 0 {
		return nil, NewValidationError("Премия должна быть больше нуля")
	}

	offer := models.Offer{
		PublicID:       uuid.NewString(),
		ProviderID:     providerID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		CoverageType:   req.CoverageType,
		MinAmount:      req.MinAmount,
		MaxAmount:      req.MaxAmount,
		MonthlyPremium: req.MonthlyPremium,
		Active:         true,
	}
	if err := s.DB.Create(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListOffers возвращает активные продукты витрины с пагинацией
func (s *OfferService) ListOffers(category string, page, limit int) (*models.OfferListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := s.DB.Model(&models.Offer{}).Where("active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var offers []models.Offer
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&offers).Error; err != nil {
		return nil, err
	}

	return &models.OfferListResponse{
		Offers:     offers,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// DeactivateOffer снимает продукт с витрины (только владелец)
func (s *OfferService) DeactivateOffer(offerID, providerID uint) error {
	var offer models.Offer
	if err := s.DB.First(&offer, offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Продукт не найден")
		}
		return err
	}
	if offer.ProviderID != providerID {
		return NewAuthorizationError("Продукт принадлежит другому провайдеру")
	}
	return s.DB.Model(&offer).Update("active", false).Error
}

// AcceptOffer оформляет продукт с витрины клиенту. Повторное принятие
// того же продукта тем же клиентом при живом полисе запрещено.
func (s *OfferService) AcceptOffer(offerID, clientID uint, req *models.AcceptOfferRequest) (*models.AcceptedOffer, error) {
	var accepted models.AcceptedOffer
	var offer models.Offer

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&offer, offerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Продукт не найден")
			}
			return err
		}
		if !offer.Active {
			return NewConflictError("Продукт снят с витрины")
		}
		if req.CoverageAmount < offer.MinAmount || req.CoverageAmount > offer.MaxAmount {
			return NewValidationError("Страховая сумма вне диапазона продукта")
		}
		now := utils.UzbekTime()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if req.StartDate.Before(today) {
			return NewValidationError("Дата начала действия полиса не может быть в прошлом")
		}

		// Идемпотентность: один активный полис на клиента по продукту
		var existing int64
		if err := tx.Model(&models.AcceptedOffer{}).
			Where("offer_id = ? AND client_id = ? AND status = ?",
				offerID, clientID, models.AcceptedOfferStatusActive).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return NewConflictError("Вы уже приняли этот продукт")
		}

		accepted = models.AcceptedOffer{
			PublicID:        uuid.NewString(),
			OfferID:         &offer.ID,
			ClientID:        clientID,
			ProviderID:      offer.ProviderID,
			CoverageAmount:  req.CoverageAmount,
			MonthlyPremium:  offer.MonthlyPremium,
			StartDate:       req.StartDate,
			AdditionalNotes: req.AdditionalNotes,
			Status:          models.AcceptedOfferStatusActive,
		}
		if err := tx.Create(&accepted).Error; err != nil {
			// Гонка двух одновременных принятий упирается в частичный
			// уникальный индекс idx_offer_client_active
			if isUniqueViolation(err) {
				return NewConflictError("Вы уже приняли этот продукт")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.NotifyUser(offer.ProviderID, EventOfferAccepted, OfferAcceptedEvent{
		OfferID:    offer.ID,
		ClientID:   clientID,
		ProviderID: offer.ProviderID,
	})

	return &accepted, nil
}

// CancelAcceptedOffer расторгает полис: active -> cancelled, необратимо
func (s *OfferService) CancelAcceptedOffer(policyID, clientID uint) error {
	var policy models.AcceptedOffer
	if err := s.DB.First(&policy, policyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Полис не найден")
		}
		return err
	}
	if policy.ClientID != clientID {
		return NewAuthorizationError("Полис принадлежит другому клиенту")
	}

	res := s.DB.Model(&models.AcceptedOffer{}).
		Where("id = ? AND status = ?", policyID, models.AcceptedOfferStatusActive).
		Update("status", models.AcceptedOfferStatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewConflictError("Расторгнуть можно только действующий полис")
	}
	return nil
}

// ListAcceptedByClient возвращает полисы клиента, опционально по статусу
func (s *OfferService) ListAcceptedByClient(clientID uint, status string) (*models.AcceptedOfferListResponse, error) {
	if status != "" && !models.ValidAcceptedOfferStatus(status) {
		return nil, NewValidationError("Неверный статус полиса")
	}
	query := s.DB.Where("client_id = ?", clientID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var policies []models.AcceptedOffer
	if err := query.Order("created_at DESC").Find(&policies).Error; err != nil {
		return nil, err
	}
	return &models.AcceptedOfferListResponse{AcceptedOffers: policies, Total: int64(len(policies))}, nil
}

// ListAcceptedByProvider возвращает полисы провайдера, опционально по статусу
func (s *OfferService) ListAcceptedByProvider(providerID uint, status string) (*models.AcceptedOfferListResponse, error) {
	if status != "" && !models.ValidAcceptedOfferStatus(status) {
		return nil, NewValidationError("Неверный статус полиса")
	}
	query := s.DB.Where("provider_id = ?", providerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var policies []models.AcceptedOffer
	if err := query.Order("created_at DESC").Find(&policies).Error; err != nil {
		return nil, err
	}
	return &models.AcceptedOfferListResponse{AcceptedOffers: policies, Total: int64(len(policies))}, nil
}

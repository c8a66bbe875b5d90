package services

import (
	"errors"
	"fmt"

	"sugurta/models"
	"sugurta/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BidService реестр предложений провайдеров: подача, принятие, отклонение
type BidService struct {
	DB       *gorm.DB
	RDB      *redis.Client
	Notifier *Notifier
}

func NewBidService(db *gorm.DB, rdb *redis.Client, notifier *Notifier) *BidService {
	return &BidService{DB: db, RDB: rdb, Notifier: notifier}
}

// SubmitBid подает предложение по заявке. Увеличивает счетчик
// предложений и переводит заявку open -> bidding при первом предложении.
func (s *BidService) SubmitBid(providerID uint, req *models.SubmitBidRequest) (*models.Bid, error) {
	if ok, msg := utils.CanSubmitBid(s.RDB, providerID, req.RequestID); !ok {
		return nil, NewValidationError(msg)
	}

	var bid models.Bid
	var request models.InsuranceRequest
	var provider models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&provider, providerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Провайдер не найден")
			}
			return err
		}
		if err := tx.First(&request, req.RequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Заявка не найдена")
			}
			return err
		}

		if request.ClientID == providerID {
			return NewAuthorizationError("Нельзя подавать предложение по собственной заявке")
		}
		if request.Status != models.RequestStatusOpen && request.Status != models.RequestStatusBidding {
			return NewConflictError(fmt.Sprintf("Заявка в статусе %s не принимает предложения", request.Status))
		}
		if request.BidDeadline != nil && !utils.UzbekTime().Before(*request.BidDeadline) {
			return NewValidationError("Дедлайн торгов по заявке истек")
		}
		if req.Amount <= 0 {
			return NewValidationError("Сумма покрытия должна быть больше нуля")
		}
		if req.Amount > request.RequestedAmount {
			return NewValidationError("Сумма покрытия превышает запрошенную по заявке")
		}
		if req.Percentage < request.MinimumBidPercentage || req.Percentage > 100 {
			return NewValidationError(fmt.Sprintf("Процент покрытия должен быть от %.0f до 100", request.MinimumBidPercentage))
		}
		if req.Premium <= 0 {
			return NewValidationError("Премия должна быть больше нуля")
		}

		var pending int64
		if err := tx.Model(&models.Bid{}).
			Where("request_id = ? AND provider_id = ? AND status = ?", req.RequestID, providerID, models.BidStatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return NewConflictError("По этой заявке уже есть ваше активное предложение")
		}

		bid = models.Bid{
			RequestID:  req.RequestID,
			ProviderID: providerID,
			Amount:     req.Amount,
			Percentage: req.Percentage,
			Premium:    req.Premium,
			Terms:      req.Terms,
			Status:     models.BidStatusPending,
		}
		if err := tx.Create(&bid).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.InsuranceRequest{}).
			Where("id = ?", request.ID).
			Update("bid_count", gorm.Expr("bid_count + 1")).Error; err != nil {
			return err
		}

		// Первое предложение открывает торги
		if request.Status == models.RequestStatusOpen {
			if err := tx.Model(&models.InsuranceRequest{}).
				Where("id = ? AND status = ?", request.ID, models.RequestStatusOpen).
				Update("status", models.RequestStatusBidding).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.MarkBidSubmitted(s.RDB, providerID, req.RequestID)

	providerName := ""
	if provider.CompanyName != nil {
		providerName = *provider.CompanyName
	} else if provider.Name != nil {
		providerName = *provider.Name
	}
	s.Notifier.NotifyUser(request.ClientID, EventNewBid, NewBidEvent{
		RequestID:    request.ID,
		ClientID:     request.ClientID,
		ProviderID:   providerID,
		ProviderName: providerName,
		Amount:       bid.Amount,
		Percentage:   bid.Percentage,
		Message:      fmt.Sprintf("Новое предложение по заявке «%s»", request.Title),
	})

	return &bid, nil
}

// AcceptBid принимает предложение: bid -> accepted, заявка -> awarded,
// создается полис. Остальные предложения по заявке остаются pending —
// клиент отклоняет их явно.
func (s *BidService) AcceptBid(bidID, clientID uint) (*models.AcceptedOffer, error) {
	var accepted models.AcceptedOffer
	var bid models.Bid
	var request models.InsuranceRequest

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bid, bidID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Предложение не найдено")
			}
			return err
		}
		if err := tx.First(&request, bid.RequestID).Error; err != nil {
			return err
		}
		if request.ClientID != clientID {
			return NewAuthorizationError("Заявка принадлежит другому клиенту")
		}

		// Один победитель на заявку (не-групповой случай)
		var alreadyAccepted int64
		if err := tx.Model(&models.Bid{}).
			Where("request_id = ? AND status = ?", bid.RequestID, models.BidStatusAccepted).
			Count(&alreadyAccepted).Error; err != nil {
			return err
		}
		if alreadyAccepted > 0 {
			return NewConflictError("По заявке уже принято предложение")
		}

		// Условный апдейт защищает от двойного принятия наперегонки
		res := tx.Model(&models.Bid{}).
			Where("id = ? AND status = ?", bidID, models.BidStatusPending).
			Update("status", models.BidStatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NewConflictError("Предложение уже обработано")
		}

		accepted = models.AcceptedOffer{
			PublicID:       uuid.NewString(),
			BidID:          &bid.ID,
			RequestID:      &bid.RequestID,
			ClientID:       clientID,
			ProviderID:     bid.ProviderID,
			CoverageAmount: bid.Amount,
			MonthlyPremium: bid.Premium,
			StartDate:      utils.UzbekTime(),
			Status:         models.AcceptedOfferStatusActive,
		}
		if err := tx.Create(&accepted).Error; err != nil {
			return err
		}

		return markStatus(tx, bid.RequestID, models.RequestStatusAwarded)
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.NotifyUser(bid.ProviderID, EventBidAccepted, BidAcceptedEvent{
		BidID:        bid.ID,
		RequestID:    request.ID,
		ProviderID:   bid.ProviderID,
		RequestTitle: request.Title,
		Amount:       bid.Amount,
		Message:      fmt.Sprintf("Ваше предложение по заявке «%s» принято", request.Title),
	})

	return &accepted, nil
}

// RejectBid отклоняет предложение. Терминальный переход.
func (s *BidService) RejectBid(bidID, clientID uint) error {
	var bid models.Bid
	if err := s.DB.First(&bid, bidID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Предложение не найдено")
		}
		return err
	}

	var request models.InsuranceRequest
	if err := s.DB.First(&request, bid.RequestID).Error; err != nil {
		return err
	}
	if request.ClientID != clientID {
		return NewAuthorizationError("Заявка принадлежит другому клиенту")
	}

	res := s.DB.Model(&models.Bid{}).
		Where("id = ? AND status = ?", bidID, models.BidStatusPending).
		Update("status", models.BidStatusRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewConflictError("Предложение уже обработано")
	}
	return nil
}

// ListByRequest возвращает предложения по заявке, опционально по статусу
func (s *BidService) ListByRequest(requestID uint, status string) (*models.BidListResponse, error) {
	if status != "" && !models.ValidBidStatus(status) {
		return nil, NewValidationError("Неверный статус предложения")
	}
	query := s.DB.Where("request_id = ?", requestID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var bids []models.Bid
	if err := query.Order("created_at DESC").Find(&bids).Error; err != nil {
		return nil, err
	}
	return &models.BidListResponse{Bids: bids, Total: int64(len(bids))}, nil
}

// ListByProvider возвращает предложения провайдера, опционально по статусу
func (s *BidService) ListByProvider(providerID uint, status string) (*models.BidListResponse, error) {
	if status != "" && !models.ValidBidStatus(status) {
		return nil, NewValidationError("Неверный статус предложения")
	}
	query := s.DB.Where("provider_id = ?", providerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var bids []models.Bid
	if err := query.Order("created_at DESC").Find(&bids).Error; err != nil {
		return nil, err
	}
	return &models.BidListResponse{Bids: bids, Total: int64(len(bids))}, nil
}

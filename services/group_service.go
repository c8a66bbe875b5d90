package services

import (
	"errors"
	"fmt"

	"sugurta/models"
	"sugurta/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupService агрегатор группового страхования: несколько провайдеров
// совместно закрывают покрытие одной заявки
type GroupService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewGroupService(db *gorm.DB, notifier *Notifier) *GroupService {
	return &GroupService{DB: db, Notifier: notifier}
}

// CreateGroupDeal создает группу по заявке. Идемпотентна: повторный
// вызов по той же заявке возвращает существующую группу.
func (s *GroupService) CreateGroupDeal(clientID uint, req *models.CreateGroupDealRequest) (*models.GroupInsuranceDeal, error) {
	var request models.InsuranceRequest
	if err := s.DB.First(&request, req.RequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Заявка не найдена")
		}
		return nil, err
	}
	if request.ClientID != clientID {
		return nil, NewAuthorizationError("Заявка принадлежит другому клиенту")
	}
	if !request.GroupInsuranceAllowed {
		return nil, NewValidationError("Групповое страхование не разрешено для этой заявки")
	}

	// Идемпотентность по request_id
	var existing models.GroupInsuranceDeal
	if err := s.DB.Where("request_id = ?", req.RequestID).First(&existing).Error; err == nil {
		return &existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.TotalAmount <= 0 {
		return nil, NewValidationError("Целевое покрытие должно быть больше нуля")
	}
	if req.MinParticipants < 1 || req.MaxParticipants < req.MinParticipants {
		return nil, NewValidationError("Неверные границы числа участников")
	}

	deal := models.GroupInsuranceDeal{
		PublicID:        uuid.NewString(),
		RequestID:       req.RequestID,
		ClientID:        clientID,
		TotalAmount:     req.TotalAmount,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
		Status:          models.GroupDealStatusForming,
		Deadline:        req.Deadline,
	}
	if deal.Deadline == nil {
		deal.Deadline = request.GroupDeadline
	}
	if err := s.DB.Create(&deal).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}

// JoinGroup добавляет провайдера в группу. Конкурентные вступления
// разводятся условным апдейтом по версии: двойной учет покрытия
// невозможен. Превышение целевого покрытия допускается (поведение
// витрины: UI предупреждает, но не запрещает).
func (s *GroupService) JoinGroup(groupID, providerID uint, req *models.JoinGroupRequest) (*models.GroupParticipant, error) {
	var participant models.GroupParticipant

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var deal models.GroupInsuranceDeal
		if err := tx.First(&deal, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Группа не найдена")
			}
			return err
		}

		if deal.Status != models.GroupDealStatusForming {
			return NewConflictError("Группа больше не принимает участников")
		}
		if deal.Deadline != nil && !utils.UzbekTime().Before(*deal.Deadline) {
			return NewConflictError("Дедлайн формирования группы истек")
		}
		if deal.CurrentParticipants >= deal.MaxParticipants {
			return NewConflictError("Достигнуто максимальное число участников")
		}
		if deal.ClientID == providerID {
			return NewAuthorizationError("Клиент не может участвовать в собственной группе")
		}

		var dup int64
		if err := tx.Model(&models.GroupParticipant{}).
			Where("group_id = ? AND provider_id = ?", groupID, providerID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return NewConflictError("Провайдер уже участвует в группе")
		}

		if req.CoverageAmount <= 0 || req.CoverageAmount > deal.TotalAmount {
			return NewValidationError("Покрытие участника должно быть в диапазоне (0, целевое покрытие]")
		}
		if req.Premium <= 0 {
			return NewValidationError("Премия должна быть больше нуля")
		}

		// Минимальная доля — minimum_bid_percentage родительской заявки.
		// Исключение: взнос, который закрывает остаток в точности.
		var request models.InsuranceRequest
		if err := tx.First(&request, deal.RequestID).Error; err != nil {
			return err
		}
		minShare := request.MinimumBidPercentage / 100 * deal.TotalAmount
		remaining := deal.TotalAmount - deal.TotalCoverage
		if req.CoverageAmount < minShare && req.CoverageAmount != remaining {
			return NewValidationError(fmt.Sprintf(
				"Покрытие должно быть не меньше %.2f или закрывать остаток %.2f", minShare, remaining))
		}

		// Оптимистичная блокировка: версия и пороги проверяются в самом
		// апдейте, проигравший конкурентный join получает conflict
		res := tx.Model(&models.GroupInsuranceDeal{}).
			Where("id = ? AND version = ? AND status = ? AND current_participants < max_participants",
				groupID, deal.Version, models.GroupDealStatusForming).
			Updates(map[string]interface{}{
				"current_participants": gorm.Expr("current_participants + 1"),
				"total_coverage":       gorm.Expr("total_coverage + ?", req.CoverageAmount),
				"version":              gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NewConflictError("Состав группы изменился, повторите попытку")
		}

		participant = models.GroupParticipant{
			GroupID:        groupID,
			ProviderID:     providerID,
			CoverageAmount: req.CoverageAmount,
			Premium:        req.Premium,
			Terms:          req.Terms,
			JoinedAt:       utils.UzbekTime(),
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}

		// Переоценка готовности после вступления
		if err := tx.First(&deal, groupID).Error; err != nil {
			return err
		}
		if deal.TotalCoverage >= deal.TotalAmount && deal.CurrentParticipants >= deal.MinParticipants {
			if err := tx.Model(&models.GroupInsuranceDeal{}).
				Where("id = ? AND status = ?", groupID, models.GroupDealStatusForming).
				Update("status", models.GroupDealStatusReady).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// FinalizeGroupDeal завершает готовую группу: по полису на каждого
// участника, родительская заявка переводится в completed
func (s *GroupService) FinalizeGroupDeal(groupID, clientID uint) (*models.GroupInsuranceDeal, error) {
	var deal models.GroupInsuranceDeal
	var participants []models.GroupParticipant

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deal, groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Группа не найдена")
			}
			return err
		}
		if deal.ClientID != clientID {
			return NewAuthorizationError("Группа принадлежит другому клиенту")
		}

		res := tx.Model(&models.GroupInsuranceDeal{}).
			Where("id = ? AND status = ?", groupID, models.GroupDealStatusReady).
			Update("status", models.GroupDealStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NewConflictError("Финализировать можно только готовую группу")
		}

		if err := tx.Where("group_id = ?", groupID).Find(&participants).Error; err != nil {
			return err
		}

		for _, p := range participants {
			policy := models.AcceptedOffer{
				PublicID:        uuid.NewString(),
				GroupDealID:     &deal.ID,
				RequestID:       &deal.RequestID,
				ClientID:        deal.ClientID,
				ProviderID:      p.ProviderID,
				CoverageAmount:  p.CoverageAmount,
				MonthlyPremium:  p.Premium,
				StartDate:       utils.UzbekTime(),
				AdditionalNotes: p.Terms,
				Status:          models.AcceptedOfferStatusActive,
			}
			if err := tx.Create(&policy).Error; err != nil {
				return err
			}
		}

		return markStatus(tx, deal.RequestID, models.RequestStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		s.Notifier.NotifyUser(p.ProviderID, EventOfferAccepted, OfferAcceptedEvent{
			OfferID:    deal.ID,
			ClientID:   deal.ClientID,
			ProviderID: p.ProviderID,
		})
	}

	deal.Status = models.GroupDealStatusCompleted
	return &deal, nil
}

// GetByRequest возвращает группу по заявке вместе с участниками
func (s *GroupService) GetByRequest(requestID uint) (*models.GroupDealResponse, error) {
	var deal models.GroupInsuranceDeal
	if err := s.DB.Where("request_id = ?", requestID).First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Группа не найдена")
		}
		return nil, err
	}
	var participants []models.GroupParticipant
	if err := s.DB.Where("group_id = ?", deal.ID).Order("joined_at").Find(&participants).Error; err != nil {
		return nil, err
	}
	return &models.GroupDealResponse{Deal: deal, Participants: participants}, nil
}

// ListGroups возвращает группы по статусу (витрина для провайдеров).
// Просроченные формирующиеся группы скрываются.
func (s *GroupService) ListGroups(status string) ([]models.GroupInsuranceDeal, error) {
	if !models.ValidGroupDealStatus(status) {
		return nil, NewValidationError("Неверный статус группы")
	}
	query := s.DB.Where("status = ?", status)
	if status == models.GroupDealStatusForming {
		query = query.Where("deadline IS NULL OR deadline > ?", utils.UzbekTime())
	}
	var deals []models.GroupInsuranceDeal
	err := query.Order("created_at DESC").Find(&deals).Error
	return deals, err
}

// CancelExpiredGroups снимает просроченные формирующиеся группы.
// Вызывается кроном.
func (s *GroupService) CancelExpiredGroups() (int64, error) {
	res := s.DB.Model(&models.GroupInsuranceDeal{}).
		Where("status = ? AND deadline IS NOT NULL AND deadline <= ?",
			models.GroupDealStatusForming, utils.UzbekTime()).
		Update("status", models.GroupDealStatusCancelled)
	return res.RowsAffected, res.Error
}

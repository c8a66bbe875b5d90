package services

import (
	"errors"
	"fmt"
	"strings"

	"sugurta/models"
	"sugurta/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestService владеет жизненным циклом страховой заявки
type RequestService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewRequestService(db *gorm.DB, notifier *Notifier) *RequestService {
	return &RequestService{DB: db, Notifier: notifier}
}

// CreateRequest создает заявку со статусом open и оповещает провайдеров
func (s *RequestService) CreateRequest(clientID uint, req *models.CreateRequestRequest) (*models.InsuranceRequest, error) {
	if req.RequestedAmount <= 0 {
		return nil, NewValidationError("Страховая сумма должна быть больше нуля")
	}
	minPct := req.MinimumBidPercentage
	if minPct == 0 {
		minPct = 10
	}
	if minPct <= 0 || minPct > 100 {
		return nil, NewValidationError("Минимальный процент покрытия должен быть в диапазоне (0, 100]")
	}
	if req.BidDeadline != nil && req.BidDeadline.Before(utils.UzbekTime()) {
		return nil, NewValidationError("Дедлайн торгов не может быть в прошлом")
	}
	if req.GroupInsuranceAllowed {
		if req.MinProviders < 1 || req.MaxProviders < req.MinProviders {
			return nil, NewValidationError("Для группового страхования нужны корректные min/max провайдеров")
		}
	}

	request := models.InsuranceRequest{
		PublicID:              uuid.NewString(),
		ClientID:              clientID,
		Title:                 req.Title,
		Description:           req.Description,
		Category:              strings.ToLower(req.Category),
		Priority:              req.Priority,
		AssetDetails:          req.AssetDetails,
		RequestedAmount:       req.RequestedAmount,
		CoverageType:          req.CoverageType,
		RiskLevel:             req.RiskLevel,
		MinimumBidPercentage:  minPct,
		BidDeadline:           req.BidDeadline,
		AllowPartialBids:      req.AllowPartialBids,
		GroupInsuranceAllowed: req.GroupInsuranceAllowed,
		MinProviders:          req.MinProviders,
		MaxProviders:          req.MaxProviders,
		GroupDeadline:         req.GroupDeadline,
		Status:                models.RequestStatusOpen,
	}
	if request.Priority == "" {
		request.Priority = "normal"
	}

	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	s.Notifier.NotifyProviders(EventNewInsuranceRequest, NewInsuranceRequestEvent{
		RequestID:   request.ID,
		Title:       request.Title,
		Category:    request.Category,
		Amount:      request.RequestedAmount,
		ClientID:    request.ClientID,
		Description: request.Description,
	})

	return &request, nil
}

// GetRequest возвращает заявку по id
func (s *RequestService) GetRequest(id uint) (*models.InsuranceRequest, error) {
	var request models.InsuranceRequest
	if err := s.DB.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Заявка не найдена")
		}
		return nil, err
	}
	return &request, nil
}

// ListFilter параметры выборки заявок
type ListFilter struct {
	Category  string
	RiskLevel string
	Status    string
	Page      int
	Limit     int
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
}

// ListByClient возвращает заявки клиента с пагинацией
func (s *RequestService) ListByClient(clientID uint, filter ListFilter) (*models.RequestListResponse, error) {
	filter.normalize()
	if filter.Status != "" && !models.ValidRequestStatus(filter.Status) {
		return nil, NewValidationError("Неверный статус заявки")
	}

	query := s.DB.Model(&models.InsuranceRequest{}).Where("client_id = ?", clientID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	return paginateRequests(query, filter)
}

// ListAvailable возвращает заявки, открытые для торгов (для провайдеров).
// Заявки с истекшим дедлайном не показываются, хотя их статус меняется
// только лениво при очередной мутации.
func (s *RequestService) ListAvailable(filter ListFilter) (*models.RequestListResponse, error) {
	filter.normalize()

	query := s.DB.Model(&models.InsuranceRequest{}).
		Where("status IN ?", []string{models.RequestStatusOpen, models.RequestStatusBidding}).
		Where("bid_deadline IS NULL OR bid_deadline > ?", utils.UzbekTime())
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.RiskLevel != "" {
		query = query.Where("risk_level = ?", filter.RiskLevel)
	}

	return paginateRequests(query, filter)
}

func paginateRequests(query *gorm.DB, filter ListFilter) (*models.RequestListResponse, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var requests []models.InsuranceRequest
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&requests).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &models.RequestListResponse{
		Requests:   requests,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// CancelRequest отменяет заявку. Разрешено только владельцу и только
// пока статус open (торги еще не начались).
func (s *RequestService) CancelRequest(id, clientID uint) error {
	request, err := s.GetRequest(id)
	if err != nil {
		return err
	}
	if request.ClientID != clientID {
		return NewAuthorizationError("Заявка принадлежит другому клиенту")
	}
	if request.Status != models.RequestStatusOpen {
		return NewConflictError(fmt.Sprintf("Заявку в статусе %s отменить нельзя", request.Status))
	}

	res := s.DB.Model(&models.InsuranceRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusOpen).
		Update("status", models.RequestStatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewConflictError("Статус заявки уже изменился")
	}
	return nil
}

// DeleteRequest удаляет заявку (soft delete). Разрешено только пока open.
func (s *RequestService) DeleteRequest(id, clientID uint) error {
	request, err := s.GetRequest(id)
	if err != nil {
		return err
	}
	if request.ClientID != clientID {
		return NewAuthorizationError("Заявка принадлежит другому клиенту")
	}
	if request.Status != models.RequestStatusOpen {
		return NewConflictError("Удалить можно только заявку в статусе open")
	}
	return s.DB.Delete(&models.InsuranceRequest{}, id).Error
}

// GetStats возвращает статистику заявок клиента и средний рыночный
// тариф по категориям его заявок
func (s *RequestService) GetStats(clientID uint) (*models.RequestStatsResponse, error) {
	var stats models.RequestStatsResponse

	base := func() *gorm.DB {
		return s.DB.Model(&models.InsuranceRequest{}).Where("client_id = ?", clientID)
	}

	base().Count(&stats.TotalRequests)
	base().Where("status = ?", models.RequestStatusOpen).Count(&stats.OpenRequests)
	base().Where("status = ?", models.RequestStatusBidding).Count(&stats.BiddingRequests)
	base().Where("status = ?", models.RequestStatusAwarded).Count(&stats.AwardedRequests)
	base().Where("status = ?", models.RequestStatusCompleted).Count(&stats.CompletedRequests)
	base().Where("status = ?", models.RequestStatusCancelled).Count(&stats.CancelledRequests)

	s.DB.Model(&models.Bid{}).
		Joins("JOIN insurance_requests ON insurance_requests.id = bids.request_id").
		Where("insurance_requests.client_id = ?", clientID).
		Count(&stats.TotalBids)

	var avg *float64
	row := s.DB.Model(&models.MarketTariff{}).
		Select("AVG(base_annual_rate)").
		Where("category IN (?)", base().Select("category")).
		Row()
	if err := row.Scan(&avg); err == nil && avg != nil {
		stats.MarketAverageRate = avg
	}

	return &stats, nil
}

// markStatus переводит заявку в целевой статус. Допустимые исходные
// статусы выводятся из RequestStatusCanTransition, сама проверка
// выполняется на уровне SQL (используется из bid/group сервисов
// внутри их транзакций)
func markStatus(tx *gorm.DB, requestID uint, to string) error {
	var from []string
	for _, status := range []string{
		models.RequestStatusOpen, models.RequestStatusBidding, models.RequestStatusAwarded,
		models.RequestStatusCompleted, models.RequestStatusCancelled,
	} {
		if models.RequestStatusCanTransition(status, to) {
			from = append(from, status)
		}
	}

	res := tx.Model(&models.InsuranceRequest{}).
		Where("id = ? AND status IN ?", requestID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewConflictError("Недопустимый переход статуса заявки")
	}
	return nil
}

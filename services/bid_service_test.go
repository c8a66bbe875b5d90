package services

import (
	"fmt"
	"testing"

	"sugurta/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitBidRejectsLowPercentage(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	_, err := s.SubmitBid(providerID, &models.SubmitBidRequest{
		RequestID:  request.ID,
		Amount:     100_000,
		Percentage: 5,
		Premium:    1000,
	})
	require.Error(t, err)
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorKindValidation, se.Kind)
}

func TestSubmitBidRejectsAmountAboveRequested(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	_, err := s.SubmitBid(providerID, &models.SubmitBidRequest{
		RequestID:  request.ID,
		Amount:     2_500_000,
		Percentage: 100,
		Premium:    1000,
	})
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindValidation, se.Kind)
}

func TestSubmitBidMissingRequest(t *testing.T) {
	db := newTestDB(t)
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")

	s := NewBidService(db, nil, NewNotifier(nil))
	_, err := s.SubmitBid(providerID, &models.SubmitBidRequest{
		RequestID:  999,
		Amount:     100_000,
		Percentage: 50,
		Premium:    1000,
	})
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindNotFound, se.Kind)
}

func TestSubmitBidIncrementsCountAndOpensBidding(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	const n = 4
	for i := 0; i < n; i++ {
		providerID := createUser(t, db, models.RoleProvider, fmt.Sprintf("provider%d@test.uz", i))
		_, err := s.SubmitBid(providerID, &models.SubmitBidRequest{
			RequestID:  request.ID,
			Amount:     500_000,
			Percentage: 25,
			Premium:    1000,
		})
		require.NoError(t, err)
	}

	var updated models.InsuranceRequest
	require.NoError(t, db.First(&updated, request.ID).Error)
	assert.Equal(t, n, updated.BidCount)
	assert.Equal(t, models.RequestStatusBidding, updated.Status)
}

func TestSubmitBidOnOwnRequestForbidden(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	_, err := s.SubmitBid(clientID, &models.SubmitBidRequest{
		RequestID:  request.ID,
		Amount:     500_000,
		Percentage: 25,
		Premium:    1000,
	})
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindAuthorization, se.Kind)
}

func TestAcceptBidCreatesPolicyAndAwardsRequest(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	bid, err := s.SubmitBid(providerID, &models.SubmitBidRequest{
		RequestID:  request.ID,
		Amount:     2_000_000,
		Percentage: 100,
		Premium:    15_000,
	})
	require.NoError(t, err)

	policy, err := s.AcceptBid(bid.ID, clientID)
	require.NoError(t, err)
	assert.Equal(t, 2_000_000.0, policy.CoverageAmount)
	assert.Equal(t, 15_000.0, policy.MonthlyPremium)
	assert.Equal(t, models.AcceptedOfferStatusActive, policy.Status)
	assert.Equal(t, providerID, policy.ProviderID)

	var updated models.InsuranceRequest
	require.NoError(t, db.First(&updated, request.ID).Error)
	assert.Equal(t, models.RequestStatusAwarded, updated.Status)

	var policies int64
	db.Model(&models.AcceptedOffer{}).Where("bid_id = ?", bid.ID).Count(&policies)
	assert.EqualValues(t, 1, policies)
}

func TestAcceptBidTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	bid, err := s.SubmitBid(providerID, &models.SubmitBidRequest{
		RequestID:  request.ID,
		Amount:     2_000_000,
		Percentage: 100,
		Premium:    15_000,
	})
	require.NoError(t, err)

	_, err = s.AcceptBid(bid.ID, clientID)
	require.NoError(t, err)

	_, err = s.AcceptBid(bid.ID, clientID)
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindConflict, se.Kind)
}

func TestAcceptBidSingleWinnerKeepsSiblingsPending(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	firstID := createUser(t, db, models.RoleProvider, "first@test.uz")
	secondID := createUser(t, db, models.RoleProvider, "second@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	first, err := s.SubmitBid(firstID, &models.SubmitBidRequest{
		RequestID: request.ID, Amount: 2_000_000, Percentage: 100, Premium: 15_000,
	})
	require.NoError(t, err)
	second, err := s.SubmitBid(secondID, &models.SubmitBidRequest{
		RequestID: request.ID, Amount: 1_800_000, Percentage: 90, Premium: 12_000,
	})
	require.NoError(t, err)

	_, err = s.AcceptBid(first.ID, clientID)
	require.NoError(t, err)

	// Второе предложение не отклоняется автоматически, но принять его нельзя
	var sibling models.Bid
	require.NoError(t, db.First(&sibling, second.ID).Error)
	assert.Equal(t, models.BidStatusPending, sibling.Status)

	_, err = s.AcceptBid(second.ID, clientID)
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindConflict, se.Kind)

	// Явное отклонение по-прежнему доступно
	require.NoError(t, s.RejectBid(second.ID, clientID))
}

func TestRejectBidTerminal(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	bid, err := s.SubmitBid(providerID, &models.SubmitBidRequest{
		RequestID: request.ID, Amount: 500_000, Percentage: 25, Premium: 1000,
	})
	require.NoError(t, err)

	require.NoError(t, s.RejectBid(bid.ID, clientID))

	err = s.RejectBid(bid.ID, clientID)
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindConflict, se.Kind)

	_, err = s.AcceptBid(bid.ID, clientID)
	require.Error(t, err)
}

func TestSubmitBidUnknownProvider(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	_, err := s.SubmitBid(9999, &models.SubmitBidRequest{
		RequestID: request.ID, Amount: 500_000, Percentage: 25, Premium: 1000,
	})
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindNotFound, se.Kind)

	// Предложение не создано
	var bids int64
	db.Model(&models.Bid{}).Where("request_id = ?", request.ID).Count(&bids)
	assert.EqualValues(t, 0, bids)
}

func TestListBidsStatusFilter(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	firstID := createUser(t, db, models.RoleProvider, "first@test.uz")
	secondID := createUser(t, db, models.RoleProvider, "second@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	_, err := s.SubmitBid(firstID, &models.SubmitBidRequest{
		RequestID: request.ID, Amount: 500_000, Percentage: 25, Premium: 1000,
	})
	require.NoError(t, err)
	rejected, err := s.SubmitBid(secondID, &models.SubmitBidRequest{
		RequestID: request.ID, Amount: 400_000, Percentage: 20, Premium: 800,
	})
	require.NoError(t, err)
	require.NoError(t, s.RejectBid(rejected.ID, clientID))

	all, err := s.ListByRequest(request.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	pending, err := s.ListByRequest(request.ID, models.BidStatusPending)
	require.NoError(t, err)
	require.EqualValues(t, 1, pending.Total)
	assert.Equal(t, firstID, pending.Bids[0].ProviderID)

	_, err = s.ListByRequest(request.ID, "weird")
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindValidation, se.Kind)

	mine, err := s.ListByProvider(secondID, models.BidStatusRejected)
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Total)
}

func TestAcceptBidForeignClientForbidden(t *testing.T) {
	db := newTestDB(t)
	clientID := createUser(t, db, models.RoleClient, "client@test.uz")
	otherID := createUser(t, db, models.RoleClient, "other@test.uz")
	providerID := createUser(t, db, models.RoleProvider, "provider@test.uz")
	request := createOpenRequest(t, db, clientID, 2_000_000, 10)

	s := NewBidService(db, nil, NewNotifier(nil))
	bid, err := s.SubmitBid(providerID, &models.SubmitBidRequest{
		RequestID: request.ID, Amount: 500_000, Percentage: 25, Premium: 1000,
	})
	require.NoError(t, err)

	_, err = s.AcceptBid(bid.ID, otherID)
	require.Error(t, err)
	se, _ := AsServiceError(err)
	assert.Equal(t, ErrorKindAuthorization, se.Kind)
}

package services

import (
	"fmt"
	"strings"
	"testing"

	"sugurta/database"
	"sugurta/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB поднимает изолированную in-memory sqlite базу с миграциями
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role, email string) uint {
	t.Helper()
	name := "Test " + role
	user := models.User{
		Email:     &email,
		Password:  "-",
		Name:      &name,
		Role:      role,
		Confirmed: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func createOpenRequest(t *testing.T, db *gorm.DB, clientID uint, amount, minPct float64) *models.InsuranceRequest {
	t.Helper()
	s := NewRequestService(db, NewNotifier(nil))
	request, err := s.CreateRequest(clientID, &models.CreateRequestRequest{
		Title:                 "Страхование склада",
		Category:              "property",
		RequestedAmount:       amount,
		MinimumBidPercentage:  minPct,
		GroupInsuranceAllowed: true,
		MinProviders:          2,
		MaxProviders:          5,
	})
	require.NoError(t, err)
	return request
}

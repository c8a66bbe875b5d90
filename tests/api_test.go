package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"sugurta/database"
	"sugurta/routes"
	"sugurta/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Функция для загрузки .env перед тестами
func TestMain(m *testing.M) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "test-jwt-secret")
	}
	if os.Getenv("CHAT_SECRET") == "" {
		os.Setenv("CHAT_SECRET", "test-chat-secret")
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestRouter поднимает роутер поверх in-memory БД.
// Redis в тестах не поднимается: лимитер, черный список токенов
// и уведомления отключаются сами.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	utils.SetDB(db)
	return routes.SetupRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(jsonBody)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

// registerUser регистрирует пользователя и возвращает его токен
func registerUser(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()
	body := map[string]string{
		"email":    email,
		"password": "testpass123",
		"role":     role,
	}
	if role == "provider" {
		body["company_name"] = "Test Insurance LLC"
	}
	w, parsed := doJSON(t, r, "POST", "/auth/register", "", body)
	require.Equal(t, 201, w.Code, w.Body.String())
	result := parsed["result"].(map[string]interface{})
	token, _ := result["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterValidation(t *testing.T) {
	r := setupTestRouter(t)

	// email и phone одновременно
	w, _ := doJSON(t, r, "POST", "/auth/register", "", map[string]string{
		"email": "a@test.uz", "phone": "+998901112233", "password": "testpass123", "role": "client",
	})
	assert.Equal(t, 400, w.Code)

	// короткий пароль
	w, _ = doJSON(t, r, "POST", "/auth/register", "", map[string]string{
		"email": "a@test.uz", "password": "short", "role": "client",
	})
	assert.Equal(t, 400, w.Code)

	// провайдер без компании
	w, _ = doJSON(t, r, "POST", "/auth/register", "", map[string]string{
		"email": "a@test.uz", "password": "testpass123", "role": "provider",
	})
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "компании")
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupTestRouter(t)
	registerUser(t, r, "login@test.uz", "client")

	// Повторная регистрация того же email
	w, _ := doJSON(t, r, "POST", "/auth/register", "", map[string]string{
		"email": "login@test.uz", "password": "testpass123", "role": "client",
	})
	assert.Equal(t, 409, w.Code)

	w, parsed := doJSON(t, r, "POST", "/auth/login", "", map[string]string{
		"email": "login@test.uz", "password": "testpass123",
	})
	require.Equal(t, 200, w.Code, w.Body.String())
	result := parsed["result"].(map[string]interface{})
	assert.NotEmpty(t, result["token"])

	w, _ = doJSON(t, r, "POST", "/auth/login", "", map[string]string{
		"email": "login@test.uz", "password": "wrongpass123",
	})
	assert.Equal(t, 401, w.Code)
}

func TestRefreshToken(t *testing.T) {
	r := setupTestRouter(t)
	registerUser(t, r, "refresh@test.uz", "client")

	w, parsed := doJSON(t, r, "POST", "/auth/login", "", map[string]string{
		"email": "refresh@test.uz", "password": "testpass123",
	})
	require.Equal(t, 200, w.Code, w.Body.String())
	result := parsed["result"].(map[string]interface{})
	accessToken, _ := result["token"].(string)
	refreshToken, _ := result["refresh_token"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	w, parsed = doJSON(t, r, "POST", "/auth/refresh", "", map[string]string{
		"refresh_token": refreshToken,
	})
	require.Equal(t, 200, w.Code, w.Body.String())
	result = parsed["result"].(map[string]interface{})
	newToken, _ := result["token"].(string)
	require.NotEmpty(t, newToken)

	// Свежий access-токен принимается защищенными роутами
	w, _ = doJSON(t, r, "GET", "/user/profile", newToken, nil)
	assert.Equal(t, 200, w.Code)

	// Access-токен вместо refresh не подходит
	w, _ = doJSON(t, r, "POST", "/auth/refresh", "", map[string]string{
		"refresh_token": accessToken,
	})
	assert.Equal(t, 401, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := setupTestRouter(t)

	w, _ := doJSON(t, r, "GET", "/requests/my", "", nil)
	assert.Equal(t, 401, w.Code)

	w, _ = doJSON(t, r, "GET", "/user/profile", "invalid-token", nil)
	assert.Equal(t, 401, w.Code)
}

func TestRoleGuards(t *testing.T) {
	r := setupTestRouter(t)
	clientToken := registerUser(t, r, "client@test.uz", "client")
	providerToken := registerUser(t, r, "provider@test.uz", "provider")

	// Провайдер не создает заявки
	w, _ := doJSON(t, r, "POST", "/requests", providerToken, map[string]interface{}{
		"title": "От провайдера", "category": "auto", "requested_amount": 100000,
	})
	assert.Equal(t, 403, w.Code)

	// Клиент не видит витрину провайдера
	w, _ = doJSON(t, r, "GET", "/requests/available", clientToken, nil)
	assert.Equal(t, 403, w.Code)
}

// Полный цикл: заявка -> предложение -> принятие -> полис
func TestBidFlowOverHTTP(t *testing.T) {
	r := setupTestRouter(t)
	clientToken := registerUser(t, r, "client@test.uz", "client")
	providerToken := registerUser(t, r, "provider@test.uz", "provider")

	w, parsed := doJSON(t, r, "POST", "/requests", clientToken, map[string]interface{}{
		"title":                  "Страхование склада",
		"category":               "property",
		"requested_amount":       2_000_000,
		"minimum_bid_percentage": 10,
	})
	require.Equal(t, 201, w.Code, w.Body.String())
	request := parsed["result"].(map[string]interface{})
	requestID := request["id"].(float64)
	assert.Equal(t, "open", request["status"])

	// Провайдер видит заявку на витрине
	w, parsed = doJSON(t, r, "GET", "/requests/available", providerToken, nil)
	require.Equal(t, 200, w.Code)
	available := parsed["result"].(map[string]interface{})
	assert.EqualValues(t, 1, available["total"])

	// Ниже минимальной доли — отказ
	w, _ = doJSON(t, r, "POST", "/bids", providerToken, map[string]interface{}{
		"request_id": requestID, "amount": 100_000, "percentage": 5, "premium": 1000,
	})
	assert.Equal(t, 400, w.Code)

	w, parsed = doJSON(t, r, "POST", "/bids", providerToken, map[string]interface{}{
		"request_id": requestID, "amount": 1_000_000, "percentage": 50, "premium": 15000,
	})
	require.Equal(t, 201, w.Code, w.Body.String())
	bid := parsed["result"].(map[string]interface{})
	bidID := bid["id"].(float64)
	assert.Equal(t, "pending", bid["status"])

	// Заявка перешла в bidding
	w, parsed = doJSON(t, r, "GET", fmt.Sprintf("/requests/%.0f", requestID), clientToken, nil)
	require.Equal(t, 200, w.Code)
	request = parsed["result"].(map[string]interface{})
	assert.Equal(t, "bidding", request["status"])
	assert.EqualValues(t, 1, request["bid_count"])

	w, parsed = doJSON(t, r, "PATCH", fmt.Sprintf("/bids/%.0f/accept", bidID), clientToken, nil)
	require.Equal(t, 200, w.Code, w.Body.String())
	policy := parsed["result"].(map[string]interface{})
	assert.Equal(t, "active", policy["status"])
	assert.EqualValues(t, 1_000_000, policy["coverage_amount"])

	// Повторное принятие — конфликт
	w, _ = doJSON(t, r, "PATCH", fmt.Sprintf("/bids/%.0f/accept", bidID), clientToken, nil)
	assert.Equal(t, 409, w.Code)

	w, parsed = doJSON(t, r, "GET", fmt.Sprintf("/requests/%.0f", requestID), clientToken, nil)
	require.Equal(t, 200, w.Code)
	request = parsed["result"].(map[string]interface{})
	assert.Equal(t, "awarded", request["status"])
}

func TestTariffsArePublic(t *testing.T) {
	r := setupTestRouter(t)

	w, parsed := doJSON(t, r, "GET", "/tariffs", "", nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, true, parsed["success"])
}

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"sugurta/models"
	"sugurta/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

var googleOauthConfig *oauth2.Config

func InitGoogleOAuth() {
	googleOauthConfig = &oauth2.Config{
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
		Endpoint:     google.Endpoint,
	}
}

type UserController struct {
	RDB *redis.Client
}

func NewUserController(rdb *redis.Client) *UserController {
	return &UserController{RDB: rdb}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Role        string `json:"role"`
}

// Register регистрирует клиента или провайдера
func (uc *UserController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if (req.Email == "" && req.Phone == "") || (req.Email != "" && req.Phone != "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите только email или только phone"})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Пароль должен быть не короче 8 символов"})
		return
	}
	if req.Role != models.RoleClient && req.Role != models.RoleProvider {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Роль должна быть client или provider"})
		return
	}
	if req.Role == models.RoleProvider && req.CompanyName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Для провайдера обязательно название компании"})
		return
	}

	db := utils.GetDB()
	var existing models.User
	query := db.Session(&gorm.Session{})
	if req.Email != "" {
		query = query.Where("email = ?", req.Email)
	} else {
		query = query.Where("phone = ?", req.Phone)
	}
	if err := query.First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Пользователь уже зарегистрирован"})
		return
	}

	user := models.User{
		Password:  utils.HashPassword(req.Password),
		Role:      req.Role,
		Confirmed: true,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if req.Name != "" {
		user.Name = &req.Name
	}
	if req.CompanyName != "" {
		user.CompanyName = &req.CompanyName
	}

	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании пользователя"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Role, os.Getenv("JWT_SECRET"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка генерации токена"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":  gin.H{"token": token, "user": user.ToResponse()},
		"success": true,
		"message": "Регистрация завершена",
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login вход по email или телефону
func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if (req.Email == "" && req.Phone == "") || (req.Email != "" && req.Phone != "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите только email или только phone"})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Пароль обязателен"})
		return
	}

	db := utils.GetDB()
	var user models.User
	var result *gorm.DB
	if req.Email != "" {
		result = db.Where("email = ? AND confirmed = ?", req.Email, true).First(&user)
	} else {
		result = db.Where("phone = ? AND confirmed = ?", req.Phone, true).First(&user)
	}
	if result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}

	// Google-аккаунт без локального пароля
	if user.GoogleID != nil && *user.GoogleID != "" && (user.Password == "" || user.Password == "-") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Этот аккаунт зарегистрирован через Google. Войдите через Google OAuth."})
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пароль неверный"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Role, os.Getenv("JWT_SECRET"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка генерации токена"})
		return
	}
	refreshToken, _, err := utils.GenerateRefreshToken(user.ID, os.Getenv("JWT_SECRET"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка генерации токена"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"token": token, "refresh_token": refreshToken, "user": user.ToResponse()},
		"success": true,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh выдает новый access-токен по refresh-токену
func (uc *UserController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, err := utils.ParseJWT(req.RefreshToken, os.Getenv("JWT_SECRET"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный или истёкший refresh-токен"})
		return
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный или истёкший refresh-токен"})
		return
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный или истёкший refresh-токен"})
		return
	}

	db := utils.GetDB()
	var user models.User
	if err := db.First(&user, uint(userID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Role, os.Getenv("JWT_SECRET"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка генерации токена"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"token": token},
		"success": true,
	})
}

// Logout кладет токен в черный список до истечения его срока
func (uc *UserController) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Токен не передан"})
		return
	}

	if uc.RDB != nil {
		uc.RDB.Set(context.Background(), "blacklist:"+token, 1, 72*time.Hour)
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{},
		"success": true,
		"message": "Выход выполнен",
	})
}

// GetProfile профиль текущего пользователя
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	db := utils.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  user.ToResponse(),
		"success": true,
	})
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleLogin редирект на страницу согласия Google
func (uc *UserController) GoogleLogin(c *gin.Context) {
	url := googleOauthConfig.AuthCodeURL("state", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback обменивает код на токен и выдает JWT. Новые
// пользователи создаются с ролью client.
func (uc *UserController) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code not found"})
		return
	}
	token, err := googleOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token exchange failed"})
		return
	}
	client := googleOauthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo?alt=json")
	if err != nil || resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to get user info"})
		return
	}
	defer resp.Body.Close()

	var userInfo googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to decode user info"})
		return
	}
	if userInfo.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email not found in Google profile"})
		return
	}

	db := utils.GetDB()
	var user models.User
	if err := db.Where("email = ?", userInfo.Email).First(&user).Error; err != nil {
		user = models.User{
			Email:     &userInfo.Email,
			Password:  "-",
			Role:      models.RoleClient,
			Confirmed: true,
			GoogleID:  &userInfo.ID,
		}
		if userInfo.Name != "" {
			user.Name = &userInfo.Name
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании пользователя"})
			return
		}
	}

	jwt, err := utils.GenerateJWT(user.ID, user.Role, os.Getenv("JWT_SECRET"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка генерации токена"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": jwt})
}

package models

import "gorm.io/gorm"

const (
	RoleClient   = "client"
	RoleProvider = "provider"
)

type User struct {
	gorm.Model
	Email       *string `gorm:"uniqueIndex"`
	Phone       *string `gorm:"uniqueIndex"`
	Password    string
	Name        *string
	CompanyName *string // только для провайдеров
	Role        string  `gorm:"default:client"`
	Confirmed   bool    `gorm:"default:false"`
	GoogleID    *string
}

// UserResponse структура ответа для профиля
type UserResponse struct {
	ID          uint    `json:"id"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Name        *string `json:"name,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Role        string  `json:"role"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Phone:       u.Phone,
		Name:        u.Name,
		CompanyName: u.CompanyName,
		Role:        u.Role,
	}
}

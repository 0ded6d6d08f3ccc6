package dto

import (
	"time"

	"freework_backend/internal/models"

	"gorm.io/datatypes"
)

// SignupRequest - запрос регистрации (роль берется из маршрута)
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// VerifyEmailRequest - запрос подтверждения email одноразовым кодом
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse - ответ verify-email и login.
// ProfileCompleted сообщает клиенту, нужно ли вести пользователя
// на шаг заполнения профиля.
type AuthResponse struct {
	Token            string `json:"token"`
	ProfileCompleted bool   `json:"profile_completed"`
}

// AccountDTO - представление аккаунта для клиента.
// Хеш пароля и одноразовый код сюда не попадают никогда.
type AccountDTO struct {
	ID               string             `json:"id"`
	Email            string             `json:"email"`
	Role             models.AccountRole `json:"role"`
	EmailVerified    bool               `json:"email_verified"`
	ProfileCompleted bool               `json:"profile_completed"`
	AdminVerified    bool               `json:"admin_verified"`
	TokenBalance     int                `json:"token_balance"`
	CreatedAt        time.Time          `json:"created_at"`
	Profile          ProfileDTO         `json:"profile"`
}

// ProfileDTO - доменные атрибуты профиля
type ProfileDTO struct {
	Name               string            `json:"name"`
	Country            string            `json:"country"`
	Phone              string            `json:"phone"`
	PostalCode         string            `json:"postal_code"`
	BankName           string            `json:"bank_name"`
	BankAccountNumber  string            `json:"bank_account_number"`
	BankDetails        datatypes.JSONMap `json:"bank_details"`
	VerificationDocURL string            `json:"verification_doc_url"`
}

// NewAccountDTO собирает DTO из модели
func NewAccountDTO(account *models.Account) *AccountDTO {
	return &AccountDTO{
		ID:               account.ID,
		Email:            account.Email,
		Role:             account.Role,
		EmailVerified:    account.EmailVerified,
		ProfileCompleted: account.ProfileCompleted,
		AdminVerified:    account.AdminVerified,
		TokenBalance:     account.TokenBalance,
		CreatedAt:        account.CreatedAt,
		Profile: ProfileDTO{
			Name:               account.Name,
			Country:            account.Country,
			Phone:              account.Phone,
			PostalCode:         account.PostalCode,
			BankName:           account.BankName,
			BankAccountNumber:  account.BankAccountNumber,
			BankDetails:        account.BankDetails,
			VerificationDocURL: account.VerificationDocURL,
		},
	}
}

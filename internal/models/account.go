package models

import (
	"time"

	"gorm.io/datatypes"
)

// Account - запись о зарегистрированном пользователе (фрилансер или бизнес).
// Жизненный цикл: создается при signup (email не подтвержден, OTP ожидает ввода),
// переходит в verified после verify-email, затем в profile-complete.
type Account struct {
	BaseModel
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Role         AccountRole `gorm:"type:varchar(20);not null" json:"role"`

	EmailVerified bool `gorm:"default:false" json:"email_verified"`

	// PendingOTP никогда не сериализуется в ответы API: код одноразовый
	// и действует только до OTPExpiresAt.
	PendingOTP   string     `gorm:"column:pending_otp" json:"-"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at" json:"-"`

	ProfileCompleted bool `gorm:"default:false" json:"profile_completed"`
	AdminVerified    bool `gorm:"default:false" json:"admin_verified"`

	// TokenBalance - стартовые кредиты площадки, выдаются при создании
	TokenBalance int `gorm:"default:100" json:"token_balance"`

	// Поля профиля. Заполняются через complete-profile, частями:
	// каждое переданное поле заменяет прежнее значение, остальные не трогаются.
	Name               string            `json:"name"`
	Country            string            `json:"country"`
	Phone              string            `json:"phone"`
	PostalCode         string            `json:"postal_code"`
	BankName           string            `json:"bank_name"`
	BankAccountNumber  string            `json:"bank_account_number"`
	BankDetails        datatypes.JSONMap `gorm:"type:jsonb" json:"bank_details"`
	VerificationDocURL string            `json:"verification_doc_url"`
}

// HasPendingOTP сообщает, есть ли у аккаунта действующий (непросроченный) код.
// Просроченный код считается отсутствующим.
func (a *Account) HasPendingOTP(now time.Time) bool {
	return a.PendingOTP != "" && a.OTPExpiresAt != nil && now.Before(*a.OTPExpiresAt)
}

package repositories

import (
	"errors"
	"time"

	"freework_backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrAccountNotFound возвращается, когда аккаунт не найден в БД
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists возвращается при попытке создать аккаунт с занятым email
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// AccountRepository определяет интерфейс хранилища аккаунтов.
// Экземпляр *gorm.DB передается в каждый метод: в обработчиках это пул
// из DBMiddleware, в интеграционных тестах - транзакция.
type AccountRepository interface {
	// Create создает новую запись об аккаунте
	Create(db *gorm.DB, account *models.Account) error

	// FindByEmail находит аккаунт по email (email хранится в нижнем регистре)
	FindByEmail(db *gorm.DB, email string) (*models.Account, error)

	// FindByID находит аккаунт по id
	FindByID(db *gorm.DB, id string) (*models.Account, error)

	// Update сохраняет все изменяемые поля аккаунта одной записью.
	// Однострочный UPDATE - единица атомарности: сервис собственных
	// блокировок не держит и полагается на хранилище.
	Update(db *gorm.DB, account *models.Account) error

	// MarkAdminVerified проставляет флаг ручной проверки администратором
	MarkAdminVerified(db *gorm.DB, accountID string) error
}

type accountRepository struct {
	// Пустая структура - db не хранится здесь
}

// NewAccountRepository создает новый экземпляр AccountRepository
func NewAccountRepository() AccountRepository {
	return &accountRepository{}
}

func (r *accountRepository) Create(db *gorm.DB, account *models.Account) error {
	var existing models.Account
	if err := db.Where("email = ?", account.Email).First(&existing).Error; err == nil {
		return ErrAccountAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Create(account).Error
}

func (r *accountRepository) FindByEmail(db *gorm.DB, email string) (*models.Account, error) {
	var account models.Account
	if err := db.First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByID(db *gorm.DB, id string) (*models.Account, error) {
	var account models.Account
	if err := db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Update(db *gorm.DB, account *models.Account) error {
	result := db.Model(&models.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"email":                account.Email,
			"password_hash":        account.PasswordHash,
			"role":                 account.Role,
			"email_verified":       account.EmailVerified,
			"pending_otp":          account.PendingOTP,
			"otp_expires_at":       account.OTPExpiresAt,
			"profile_completed":    account.ProfileCompleted,
			"admin_verified":       account.AdminVerified,
			"token_balance":        account.TokenBalance,
			"name":                 account.Name,
			"country":              account.Country,
			"phone":                account.Phone,
			"postal_code":          account.PostalCode,
			"bank_name":            account.BankName,
			"bank_account_number":  account.BankAccountNumber,
			"bank_details":         account.BankDetails,
			"verification_doc_url": account.VerificationDocURL,
			"updated_at":           time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) MarkAdminVerified(db *gorm.DB, accountID string) error {
	result := db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"admin_verified": true,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

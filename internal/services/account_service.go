package services

import (
	"freework_backend/internal/appErrors"
	"freework_backend/internal/models"
	"freework_backend/internal/repositories"
	"freework_backend/internal/services/dto"

	"gorm.io/gorm"
)

// AccountService - операции над уже существующими аккаунтами,
// не входящие в поток регистрации.
type AccountService interface {
	// GetAccount возвращает представление аккаунта для клиента
	GetAccount(db *gorm.DB, accountID string) (*dto.AccountDTO, error)

	// AdminVerify проставляет флаг ручной проверки (админский гейт,
	// наступает после завершения профиля и находится вне основной
	// машины состояний регистрации)
	AdminVerify(db *gorm.DB, accountID string) (*dto.AccountDTO, error)
}

type accountService struct {
	accountRepo repositories.AccountRepository
}

func NewAccountService(accountRepo repositories.AccountRepository) AccountService {
	return &accountService{accountRepo: accountRepo}
}

func (s *accountService) GetAccount(db *gorm.DB, accountID string) (*dto.AccountDTO, error) {
	account, err := s.findAccount(db, accountID)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountDTO(account), nil
}

func (s *accountService) AdminVerify(db *gorm.DB, accountID string) (*dto.AccountDTO, error) {
	account, err := s.findAccount(db, accountID)
	if err != nil {
		return nil, err
	}

	if account.Role == models.RoleAdmin {
		return nil, appErrors.NewBadRequestError("Admin accounts are not subject to verification")
	}

	if err := s.accountRepo.MarkAdminVerified(db, account.ID); err != nil {
		return nil, appErrors.PersistenceError(err)
	}

	account.AdminVerified = true
	return dto.NewAccountDTO(account), nil
}

func (s *accountService) findAccount(db *gorm.DB, accountID string) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(db, accountID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrAccountNotFound) {
			return nil, appErrors.ErrAccountNotFound
		}
		return nil, appErrors.PersistenceError(err)
	}
	return account, nil
}

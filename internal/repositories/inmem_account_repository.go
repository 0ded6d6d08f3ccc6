package repositories

import (
	"sync"

	"freework_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InMemAccountRepository - хранилище аккаунтов в памяти.
// Используется в unit-тестах и для локальной разработки без Postgres.
// Аргумент db игнорируется. Каждая запись копируется при чтении и записи,
// чтобы вызывающий код не делил память с хранилищем.
type InMemAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account // key: id
	byEmail  map[string]string          // email -> id
}

// NewInMemAccountRepository создает пустое in-memory хранилище
func NewInMemAccountRepository() *InMemAccountRepository {
	return &InMemAccountRepository{
		accounts: make(map[string]*models.Account),
		byEmail:  make(map[string]string),
	}
}

func (r *InMemAccountRepository) Create(_ *gorm.DB, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return ErrAccountAlreadyExists
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	stored := *account
	r.accounts[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	return nil
}

func (r *InMemAccountRepository) FindByEmail(_ *gorm.DB, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}

	found := *r.accounts[id]
	return &found, nil
}

func (r *InMemAccountRepository) FindByID(_ *gorm.DB, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}

	found := *account
	return &found, nil
}

func (r *InMemAccountRepository) Update(_ *gorm.DB, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[account.ID]
	if !ok {
		return ErrAccountNotFound
	}

	delete(r.byEmail, stored.Email)

	updated := *account
	r.accounts[updated.ID] = &updated
	r.byEmail[updated.Email] = updated.ID
	return nil
}

func (r *InMemAccountRepository) MarkAdminVerified(_ *gorm.DB, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}

	account.AdminVerified = true
	return nil
}

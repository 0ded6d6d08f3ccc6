package services

import (
	"strings"
	"time"

	"freework_backend/internal/appErrors"
	"freework_backend/internal/auth"
	"freework_backend/internal/config"
	"freework_backend/internal/email"
	"freework_backend/internal/logger"
	"freework_backend/internal/models"
	"freework_backend/internal/repositories"
	"freework_backend/internal/services/dto"

	"gorm.io/gorm"
)

// RegistrationService владеет жизненным циклом аккаунта от первого signup
// до завершения профиля: генерация и проверка OTP, хеширование пароля,
// выпуск сессионного токена.
//
// Машина состояний аккаунта:
//
//	Unverified --verify-email(корректный OTP)--> Verified --complete-profile--> ProfileComplete
//
// Обратного перехода в Unverified нет; повторный signup по тому же email
// перезаписывает только неподтвержденную запись.
type RegistrationService interface {
	InitiateSignup(db *gorm.DB, role models.AccountRole, req *dto.SignupRequest) error
	VerifyEmail(db *gorm.DB, req *dto.VerifyEmailRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	CompleteProfile(db *gorm.DB, accountID string, req *dto.CompleteProfileRequest) error
}

type registrationService struct {
	accountRepo   repositories.AccountRepository
	emailProvider email.Provider

	jwtSecret    string
	jwtTTL       int // минуты
	otpTTL       time.Duration
	tokenBalance int
}

func NewRegistrationService(
	accountRepo repositories.AccountRepository,
	emailProvider email.Provider,
	cfg *config.Config,
) RegistrationService {
	return &registrationService{
		accountRepo:   accountRepo,
		emailProvider: emailProvider,
		jwtSecret:     cfg.JWT.Secret,
		jwtTTL:        cfg.JWT.TTL,
		otpTTL:        time.Duration(cfg.Signup.OTPTTL) * time.Minute,
		tokenBalance:  cfg.Signup.TokenBalance,
	}
}

// InitiateSignup - первый шаг регистрации: создает (или перезаписывает
// неподтвержденный) аккаунт, хеширует пароль и отправляет код на email.
// Значение кода вызывающему не возвращается.
func (s *registrationService) InitiateSignup(db *gorm.DB, role models.AccountRole, req *dto.SignupRequest) error {
	if !role.IsRegistrable() {
		return appErrors.ErrInvalidRole
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return appErrors.ErrWeakPassword
	}

	emailAddr := normalizeEmail(req.Email)

	existing, err := s.accountRepo.FindByEmail(db, emailAddr)
	if err != nil && !appErrors.Is(err, repositories.ErrAccountNotFound) {
		return appErrors.PersistenceError(err)
	}

	// Повторный signup на подтвержденный email отклоняется: иначе любой,
	// кто знает чужой адрес, мог бы перехватить аккаунт новым паролем.
	if existing != nil && existing.EmailVerified {
		return appErrors.ErrEmailAlreadyExists
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return appErrors.InternalError(err)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return appErrors.InternalError(err)
	}

	expiresAt := time.Now().Add(s.otpTTL)

	if existing != nil {
		// Неподтвержденная запись перезаписывается целиком: новый хеш,
		// новый код, новый срок. Это же и есть механизм повторной отправки.
		existing.Role = role
		existing.PasswordHash = hashedPassword
		existing.PendingOTP = otp
		existing.OTPExpiresAt = &expiresAt

		if err := s.accountRepo.Update(db, existing); err != nil {
			return appErrors.PersistenceError(err)
		}
	} else {
		account := &models.Account{
			Email:        emailAddr,
			PasswordHash: hashedPassword,
			Role:         role,
			PendingOTP:   otp,
			OTPExpiresAt: &expiresAt,
			TokenBalance: s.tokenBalance,
		}

		if err := s.accountRepo.Create(db, account); err != nil {
			if appErrors.Is(err, repositories.ErrAccountAlreadyExists) {
				return appErrors.ErrEmailAlreadyExists
			}
			return appErrors.PersistenceError(err)
		}
	}

	// Отправка синхронная: провал доставки виден вызывающему.
	// Запись при этом остается - повторный signup перевыпустит код.
	if err := s.emailProvider.SendVerificationCode(emailAddr, otp); err != nil {
		logger.WithError(err).Warn("verification code delivery failed", "email", emailAddr)
		return appErrors.DeliveryError(err)
	}

	return nil
}

// VerifyEmail проверяет одноразовый код и выпускает сессионный токен.
// Несовпадение кода и его просроченность для клиента неразличимы.
func (s *registrationService) VerifyEmail(db *gorm.DB, req *dto.VerifyEmailRequest) (*dto.AuthResponse, error) {
	account, err := s.accountRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if appErrors.Is(err, repositories.ErrAccountNotFound) {
			return nil, appErrors.ErrAccountNotFound
		}
		return nil, appErrors.PersistenceError(err)
	}

	// Точное совпадение, без нормализации кода
	if account.PendingOTP == "" || account.PendingOTP != req.OTP {
		return nil, appErrors.ErrInvalidCredentials
	}

	// Строго now < otp_expires_at: код, чей срок наступил, уже недействителен
	if account.OTPExpiresAt == nil || !time.Now().Before(*account.OTPExpiresAt) {
		return nil, appErrors.ErrInvalidCredentials
	}

	// Код одноразовый: очищается при успехе, повторная проверка
	// той же пары (email, otp) провалится
	account.EmailVerified = true
	account.PendingOTP = ""
	account.OTPExpiresAt = nil

	if err := s.accountRepo.Update(db, account); err != nil {
		return nil, appErrors.PersistenceError(err)
	}

	token, err := auth.GenerateToken(s.jwtSecret, account.ID, string(account.Role), s.jwtTTL)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Token:            token,
		ProfileCompleted: account.ProfileCompleted,
	}, nil
}

// Login - вход по email и паролю. Требует подтвержденный email.
// Неизвестный email и неверный пароль для клиента неразличимы.
func (s *registrationService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	account, err := s.accountRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if appErrors.Is(err, repositories.ErrAccountNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.PersistenceError(err)
	}

	if !auth.CheckPasswordHash(req.Password, account.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !account.EmailVerified {
		return nil, appErrors.ErrEmailNotVerified
	}

	token, err := auth.GenerateToken(s.jwtSecret, account.ID, string(account.Role), s.jwtTTL)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Token:            token,
		ProfileCompleted: account.ProfileCompleted,
	}, nil
}

// CompleteProfile сливает переданные поля в профиль аккаунта.
// Семантика неглубокая: каждое переданное поле заменяет прежнее значение,
// непереданные не трогаются. Доступно только после подтверждения email.
func (s *registrationService) CompleteProfile(db *gorm.DB, accountID string, req *dto.CompleteProfileRequest) error {
	account, err := s.accountRepo.FindByID(db, accountID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrAccountNotFound) {
			return appErrors.ErrAccountNotFound
		}
		return appErrors.PersistenceError(err)
	}

	if !account.EmailVerified {
		return appErrors.ErrEmailNotVerified
	}

	mergeProfileFields(account, req)

	// Доменное правило площадки: без имени и страны профиль не считается
	// заполненным (банковские реквизиты и документы можно догрузить позже)
	missing := map[string]string{}
	if account.Name == "" {
		missing["name"] = "This field is required"
	}
	if account.Country == "" {
		missing["country"] = "This field is required"
	}
	if len(missing) > 0 {
		return appErrors.ValidationError(missing)
	}

	account.ProfileCompleted = true

	if err := s.accountRepo.Update(db, account); err != nil {
		return appErrors.PersistenceError(err)
	}

	return nil
}

// --- Helper functions ---

func mergeProfileFields(account *models.Account, req *dto.CompleteProfileRequest) {
	if req.Name != nil {
		account.Name = strings.TrimSpace(*req.Name)
	}
	if req.Country != nil {
		account.Country = strings.TrimSpace(*req.Country)
	}
	if req.Phone != nil {
		account.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.PostalCode != nil {
		account.PostalCode = strings.TrimSpace(*req.PostalCode)
	}
	if req.BankName != nil {
		account.BankName = strings.TrimSpace(*req.BankName)
	}
	if req.BankAccountNumber != nil {
		account.BankAccountNumber = strings.TrimSpace(*req.BankAccountNumber)
	}
	if req.BankDetails != nil {
		// bank_details заменяется как единое поле, ключи не сливаются
		account.BankDetails = req.BankDetails
	}
	if req.VerificationDocURL != nil {
		account.VerificationDocURL = strings.TrimSpace(*req.VerificationDocURL)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package services

import (
	"freework_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	RegistrationService RegistrationService
	AccountService      AccountService
	EmailService        email.Provider
}

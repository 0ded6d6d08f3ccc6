package app

import (
	"freework_backend/internal/email"
	"freework_backend/internal/logger"
)

// MockEmailProvider пишет письма в лог вместо отправки.
// Используется в локальной разработке, когда SMTP не настроен.
type MockEmailProvider struct{}

func (p *MockEmailProvider) Send(msg *email.Email) error {
	logger.Info("[MOCK EMAIL] Send", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (p *MockEmailProvider) SendVerificationCode(to string, code string) error {
	logger.Info("[MOCK EMAIL] Verification code", "to", to, "code", code)
	return nil
}

func (p *MockEmailProvider) Validate() error {
	return nil
}

func (p *MockEmailProvider) Close() error {
	return nil
}

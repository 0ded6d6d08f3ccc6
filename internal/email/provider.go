package email

// Provider определяет интерфейс для отправки email.
// Сервисы видят только его: доставка кода подтверждения - внешний коллаборатор.
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendVerificationCode отправляет одноразовый код подтверждения адреса.
	// Сам код в ответах API никогда не появляется - только здесь, в письме.
	SendVerificationCode(to string, code string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error

	// Close закрывает соединение с провайдером
	Close() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	// Render рендерит шаблон с данными
	Render(templateName string, data TemplateData) (string, error)

	// AddTemplate добавляет шаблон в рендерер
	AddTemplate(name string, template string) error

	// LoadTemplates загружает шаблоны из директории
	LoadTemplates(dirPath string) error
}

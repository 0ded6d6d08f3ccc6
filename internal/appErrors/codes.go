package appErrors

// Коды ошибок сгруппированные по доменам
const (
	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	// Валидация
	CodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword       ErrorCode = "WEAK_PASSWORD"
	CodeInvalidAccountRole ErrorCode = "INVALID_ACCOUNT_ROLE"

	// Ресурсы
	CodeAccountNotFound ErrorCode = "ACCOUNT_NOT_FOUND"

	// Бизнес-логика
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeEmailNotVerified   ErrorCode = "EMAIL_NOT_VERIFIED"

	// Системные ошибки
	CodeInternalError  ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError  ErrorCode = "DATABASE_ERROR"
	CodeDeliveryFailed ErrorCode = "DELIVERY_FAILED"
)

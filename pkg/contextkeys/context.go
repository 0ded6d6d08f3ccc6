package contextkeys

// Используем кастомный тип, чтобы избежать коллизий ключей в context
type contextKey string

// DBContextKey - ключ, по которому DBMiddleware хранит *gorm.DB в context
const DBContextKey = contextKey("db")

package workers

import (
	"context"
	"time"

	"freework_backend/internal/logger"

	"gorm.io/gorm"
)

// staleSignupRetention - сколько храним неподтвержденные аккаунты
// после истечения их кода. Повторный signup в этот период продолжает
// работать как повторная отправка кода.
const staleSignupRetention = 30 * 24 * time.Hour

// CleanupWorker - фоновая чистка брошенных регистраций.
// Подтвержденные аккаунты не трогает никогда.
type CleanupWorker struct {
	db *gorm.DB
}

func NewCleanupWorker(db *gorm.DB) *CleanupWorker {
	return &CleanupWorker{db: db}
}

// Start запускает фоновые задачи очистки
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.purgeStaleSignups(ctx)
}

// purgeStaleSignups удаляет неподтвержденные аккаунты, чей код
// истек больше staleSignupRetention назад
func (w *CleanupWorker) purgeStaleSignups(ctx context.Context) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-staleSignupRetention)
			result := w.db.Exec(`
				DELETE FROM accounts
				WHERE email_verified = false
				AND otp_expires_at IS NOT NULL
				AND otp_expires_at < ?
			`, cutoff)
			if result.Error != nil {
				logger.WithError(result.Error).Error("Failed to purge stale signups")
			} else if result.RowsAffected > 0 {
				logger.Info("Purged stale unverified accounts", "count", result.RowsAffected)
			}
		}
	}
}

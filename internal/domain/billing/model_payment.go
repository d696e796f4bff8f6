package billing

import (
	"time"

	"memorial-app/internal/domain/users"
)

// Payment is the immutable record of a completed (or failed) checkout.
// The unique index on StripeSessionID is what makes duplicate webhook
// deliveries harmless: the second insert is skipped.
type Payment struct {
	ID         uint `gorm:"primaryKey"`
	UserID     uint
	User       users.User
	MemorialID string `gorm:"type:uuid;index"`

	StripeSessionID string `gorm:"uniqueIndex"`
	AmountCents     int64
	Currency        string
	Status          string
	ReceiptURL      *string

	CreatedAt time.Time
}

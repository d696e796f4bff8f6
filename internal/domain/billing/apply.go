package billing

import (
	"fmt"
	"time"

	"memorial-app/internal/domain/memorials"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// Apply writes a reconciliation outcome to storage. Both the webhook
// and the verification endpoint end up here, so replays and races
// converge: the row updates are absolute values and the payment insert
// is guarded by the unique session index.
func Apply(db *gorm.DB, m *memorials.Memorial, sess *stripe.CheckoutSession, out Outcome) error {
	return db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"payment_status": out.NextPaymentStatus,
		}
		if out.Publish {
			updates["status"] = memorials.StatusPublished
			if m.PublishedAt == nil {
				updates["published_at"] = time.Now()
			}
		}
		if out.ClearSession {
			updates["stripe_session_id"] = nil
		}

		if err := tx.Model(&memorials.Memorial{}).
			Where("id = ?", m.ID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update memorial %s: %w", m.ID, err)
		}

		if out.RecordPayment {
			payment := Payment{
				UserID:          m.UserID,
				MemorialID:      m.ID,
				StripeSessionID: sess.ID,
				AmountCents:     sess.AmountTotal,
				Currency:        string(sess.Currency),
				Status:          "succeeded",
			}
			// FirstOrCreate keeps a webhook replay from inserting a
			// second record for the same session.
			if err := tx.Where(Payment{StripeSessionID: sess.ID}).
				FirstOrCreate(&payment).Error; err != nil {
				return fmt.Errorf("failed to record payment for session %s: %w", sess.ID, err)
			}
		}

		return nil
	})
}

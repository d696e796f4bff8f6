package stripewebhooks

import (
	"errors"
	"fmt"

	"memorial-app/database"
	"memorial-app/internal/domain/billing"
	"memorial-app/internal/domain/memorials"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// Delayed payment methods can fail after checkout completes. The
// memorial stays a draft with payment_status "failed" so the studio
// can offer a retry; nothing the owner wrote is touched.
func handleAsyncPaymentFailed(session *stripe.CheckoutSession) error {
	var m memorials.Memorial
	err := database.DB.Where("stripe_session_id = ?", session.ID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up memorial for session %s: %w", session.ID, err)
	}

	out := billing.Reconcile(billing.SessionFailed, m.PaymentStatus)
	return billing.Apply(database.DB, &m, session, out)
}

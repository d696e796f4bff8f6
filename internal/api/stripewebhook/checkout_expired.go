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

// An expired session means the owner abandoned checkout. The row goes
// back to its pre-checkout state so a later attempt starts clean; draft
// content is untouched.
func handleCheckoutSessionExpired(session *stripe.CheckoutSession) error {
	var m memorials.Memorial
	err := database.DB.Where("stripe_session_id = ?", session.ID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Session already cleared or never stored; nothing to undo.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up memorial for session %s: %w", session.ID, err)
	}

	out := billing.Reconcile(billing.SessionExpired, m.PaymentStatus)
	return billing.Apply(database.DB, &m, session, out)
}

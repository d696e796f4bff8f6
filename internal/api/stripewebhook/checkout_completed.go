package stripewebhooks

import (
	"errors"
	"fmt"

	"memorial-app/database"
	"memorial-app/internal/domain/billing"
	"memorial-app/internal/domain/memorials"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

func handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	// Fetch the full session rather than trusting the event payload.
	fullSession, err := checkoutsession.Get(session.ID, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch checkout session: %w", err)
	}

	m, err := memorialForSession(fullSession)
	if err != nil {
		return err
	}

	state := billing.NormalizeSessionState(string(fullSession.Status), string(fullSession.PaymentStatus))
	out := billing.Reconcile(state, m.PaymentStatus)
	if err := billing.Apply(database.DB, m, fullSession, out); err != nil {
		return fmt.Errorf("failed to apply checkout outcome: %w", err)
	}

	return nil
}

// memorialForSession resolves which memorial a checkout session pays
// for: metadata.memorial_id preferred, else ClientReferenceID, else
// the session id stored on the row at checkout time.
func memorialForSession(session *stripe.CheckoutSession) (*memorials.Memorial, error) {
	memorialID := ""
	if session.Metadata != nil {
		memorialID = session.Metadata["memorial_id"]
	}
	if memorialID == "" {
		memorialID = session.ClientReferenceID
	}

	var m memorials.Memorial
	if memorialID != "" {
		if err := database.DB.Where("id = ?", memorialID).First(&m).Error; err != nil {
			return nil, fmt.Errorf("memorial %s not found: %w", memorialID, err)
		}
		return &m, nil
	}

	if err := database.DB.Where("stripe_session_id = ?", session.ID).First(&m).Error; err != nil {
		return nil, errors.New("checkout session carries no memorial reference")
	}
	return &m, nil
}

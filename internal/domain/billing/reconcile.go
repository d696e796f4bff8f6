package billing

import (
	"strings"

	"memorial-app/internal/domain/memorials"
)

// SessionState is the provider's view of a checkout session, collapsed
// to the cases the reconciliation cares about.
type SessionState string

const (
	SessionPaid    SessionState = "paid"
	SessionUnpaid  SessionState = "unpaid"
	SessionExpired SessionState = "expired"
	SessionFailed  SessionState = "failed"
)

// NormalizeSessionState maps Stripe's (status, payment_status) pair to
// a SessionState. Used only for checkout reconciliation.
func NormalizeSessionState(sessionStatus, paymentStatus string) SessionState {
	if strings.TrimSpace(sessionStatus) == "expired" {
		return SessionExpired
	}
	switch strings.TrimSpace(paymentStatus) {
	case "paid", "no_payment_required":
		return SessionPaid
	default:
		return SessionUnpaid
	}
}

// Outcome is what the caller must apply to the stored memorial row.
type Outcome struct {
	// NextPaymentStatus is the payment status the row should carry.
	NextPaymentStatus string
	// Publish flips the memorial to published. Applying it twice is
	// harmless: the fields land on the same values.
	Publish bool
	// RecordPayment inserts the payment record if none exists yet for
	// this session.
	RecordPayment bool
	// ClearSession removes the stored checkout session id so the
	// owner can retry from a clean slate.
	ClearSession bool
}

// Reconcile decides the next stored state from the provider's session
// state and the currently stored payment status. Both the webhook path
// and the synchronous verification path go through this one function,
// so they converge through identical logic, and re-running it on an
// already-converged row changes nothing.
func Reconcile(provider SessionState, storedPayment string) Outcome {
	switch provider {
	case SessionPaid:
		return Outcome{
			NextPaymentStatus: memorials.PaymentPaid,
			Publish:           true,
			RecordPayment:     true,
		}
	case SessionExpired:
		return Outcome{
			NextPaymentStatus: memorials.PaymentNone,
			ClearSession:      true,
		}
	case SessionFailed:
		return Outcome{NextPaymentStatus: memorials.PaymentFailed}
	default:
		// Session still open: leave the row as it is.
		return Outcome{NextPaymentStatus: storedPayment}
	}
}

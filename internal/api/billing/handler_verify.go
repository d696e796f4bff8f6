package billing

import (
	"net/http"

	"memorial-app/config"
	"memorial-app/database"
	"memorial-app/internal/domain/billing"
	"memorial-app/internal/domain/memorials"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// VerifyPayment is the client-driven fallback for the publish flow.
// The browser lands back on the studio with the session id and asks
// the server to confirm; the server re-queries Stripe rather than
// trusting anything from the redirect. The webhook may already have
// handled the session, in which case this is a no-op that reports the
// current state.
func VerifyPayment(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var body struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
		return
	}

	var m memorials.Memorial
	if err := database.DB.Where("id = ?", c.Param("id")).First(&m).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
		return
	}
	if !memorials.IsOwner(&m, userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
		return
	}

	// Already reconciled (usually by the webhook): report and stop.
	if m.PaymentStatus == memorials.PaymentPaid {
		c.JSON(http.StatusOK, gin.H{"verified": true, "status": m.Status})
		return
	}

	if m.StripeSessionID == nil || *m.StripeSessionID != body.SessionID {
		c.JSON(http.StatusConflict, gin.H{"error": "Session does not belong to this memorial", "code": "session_mismatch"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment is not configured", "code": "payment_not_configured"})
		return
	}

	sess, err := checkoutsession.Get(body.SessionID, nil)
	if err != nil {
		log.Error().Err(err).Str("session_id", body.SessionID).Msg("checkout session lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not verify payment with Stripe"})
		return
	}

	state := billing.NormalizeSessionState(string(sess.Status), string(sess.PaymentStatus))
	if state != billing.SessionPaid {
		c.JSON(http.StatusOK, gin.H{"verified": false, "code": "payment_not_completed"})
		return
	}

	out := billing.Reconcile(state, m.PaymentStatus)
	if err := billing.Apply(database.DB, &m, sess, out); err != nil {
		log.Error().Err(err).Str("memorial_id", m.ID).Msg("payment reconciliation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true, "status": memorials.StatusPublished})
}

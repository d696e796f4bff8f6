package billing

import (
	"fmt"
	"net/http"

	"memorial-app/config"
	"memorial-app/database"
	"memorial-app/internal/domain/memorials"
	"memorial-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	customer "github.com/stripe/stripe-go/v75/customer"
)

// CreateCheckoutSession starts the one-time publish payment for a
// memorial. All preconditions are checked before any Stripe call so a
// rejected request never leaves a dangling session.
func CreateCheckoutSession(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
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

	if m.PaymentStatus == memorials.PaymentPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "Memorial is already paid for", "code": "already_paid"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" || config.STRIPE_PRICE_ID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment is not configured", "code": "payment_not_configured"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// ensure stripe customer
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		cus, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
			},
		})
		if err != nil {
			log.Error().Err(err).Uint("user_id", user.ID).Msg("stripe customer create failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
			return
		}

		if err := database.DB.Model(&users.User{}).
			Where("id = ?", user.ID).
			Update("stripe_customer_id", cus.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Stripe customer"})
			return
		}

		user.StripeCustomerID = stripe.String(cus.ID)
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(config.APP_URL + "/studio/" + m.ID + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(config.APP_URL + "/studio/" + m.ID + "?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		Customer:   stripe.String(*user.StripeCustomerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(config.STRIPE_PRICE_ID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(m.ID),
	}
	params.AddMetadata("memorial_id", m.ID)
	params.AddMetadata("user_id", fmt.Sprint(user.ID))

	s, err := checkoutsession.New(params)
	if err != nil {
		log.Error().Err(err).Str("memorial_id", m.ID).Msg("checkout session create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	if err := database.DB.Model(&memorials.Memorial{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"stripe_session_id": s.ID,
			"payment_status":    memorials.PaymentPending,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

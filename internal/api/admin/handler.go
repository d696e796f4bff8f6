package admin

import (
	"net/http"

	"memorial-app/database"
	"memorial-app/internal/domain/billing"
	"memorial-app/internal/domain/memorials"
	"memorial-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID               uint    `json:"id"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	AuthProvider     string  `json:"auth_provider"`
	StripeCustomerID *string `json:"stripe_customer_id,omitempty"`
	MemorialCount    int64   `json:"memorial_count"`
}

type AdminPayment struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	MemorialID  string `json:"memorial_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type AdminStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalMemorials    int64 `json:"total_memorials"`
	PublishedCount    int64 `json:"published_count"`
	DraftCount        int64 `json:"draft_count"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Order("created_at DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	result := make([]AdminUser, 0, len(all))
	for _, u := range all {
		var count int64
		database.DB.Model(&memorials.Memorial{}).
			Where("user_id = ?", u.ID).Count(&count)

		result = append(result, AdminUser{
			ID:               u.ID,
			FirstName:        u.FirstName,
			LastName:         u.LastName,
			Email:            u.Email,
			Role:             u.Role,
			AuthProvider:     u.AuthProvider,
			StripeCustomerID: u.StripeCustomerID,
			MemorialCount:    count,
		})
	}

	c.JSON(http.StatusOK, result)
}

func ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	if err := database.DB.Preload("User").Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	result := make([]AdminPayment, 0, len(payments))
	for _, p := range payments {
		result = append(result, AdminPayment{
			ID:          p.ID,
			Email:       p.User.Email,
			MemorialID:  p.MemorialID,
			AmountCents: p.AmountCents,
			Currency:    p.Currency,
			Status:      p.Status,
			CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, result)
}

func GetAdminStats(c *gin.Context) {
	var stats AdminStats

	database.DB.Model(&users.User{}).Count(&stats.TotalUsers)
	database.DB.Model(&memorials.Memorial{}).Count(&stats.TotalMemorials)
	database.DB.Model(&memorials.Memorial{}).
		Where("status = ?", memorials.StatusPublished).Count(&stats.PublishedCount)
	database.DB.Model(&memorials.Memorial{}).
		Where("status = ?", memorials.StatusDraft).Count(&stats.DraftCount)
	database.DB.Model(&billing.Payment{}).
		Where("status = ?", "succeeded").
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&stats.TotalRevenueCents)

	c.JSON(http.StatusOK, stats)
}

package public

import (
	"net/http"
	"strings"

	"memorial-app/database"
	"memorial-app/internal/domain/memorials"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// loadPublished resolves a published memorial by custom URL or id.
// Drafts and unknown slugs both read as 404.
func loadPublished(c *gin.Context, slug string) (*memorials.Memorial, bool) {
	q := database.DB.Preload("Photos")
	if _, err := uuid.Parse(slug); err == nil {
		q = q.Where("id = ? OR custom_url = ?", slug, slug)
	} else {
		q = q.Where("custom_url = ?", slug)
	}

	var m memorials.Memorial
	if err := q.Where("status = ?", memorials.StatusPublished).First(&m).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
		return nil, false
	}
	return &m, true
}

// authorize applies the memorial's privacy mode. The viewer identity,
// if any, comes from the optional auth middleware.
func authorize(c *gin.Context, m *memorials.Memorial) bool {
	switch m.Privacy {
	case memorials.PrivacyPrivate:
		userID := c.GetUint("user_id")
		if userID == 0 || !memorials.CanViewPrivate(m, userID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
			return false
		}
		return true

	case memorials.PrivacyPasswordProtected:
		if memorials.CanViewPrivate(m, c.GetUint("user_id")) {
			return true
		}
		if m.PasswordHash == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
			return false
		}
		given := c.GetHeader("X-Memorial-Password")
		if given == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Password required", "code": "password_required"})
			return false
		}
		if bcrypt.CompareHashAndPassword([]byte(*m.PasswordHash), []byte(given)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password", "code": "password_required"})
			return false
		}
		return true

	default:
		return true
	}
}

// ------------------------------
// GET /m/:slug
// ------------------------------
func GetPublicMemorial(c *gin.Context) {
	m, ok := loadPublished(c, c.Param("slug"))
	if !ok {
		return
	}
	if !authorize(c, m) {
		return
	}

	var entries []memorials.GuestbookEntry
	if err := database.DB.
		Where("memorial_id = ? AND approved = ?", m.ID, true).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load guestbook"})
		return
	}

	var prayerCount int64
	database.DB.Model(&memorials.PrayerListEntry{}).
		Where("memorial_id = ?", m.ID).Count(&prayerCount)

	c.JSON(http.StatusOK, gin.H{
		"memorial":     m,
		"guestbook":    entries,
		"prayer_count": prayerCount,
	})
}

// ------------------------------
// POST /m/:slug/guestbook
// ------------------------------
func SignGuestbook(c *gin.Context) {
	m, ok := loadPublished(c, c.Param("slug"))
	if !ok {
		return
	}
	if !authorize(c, m) {
		return
	}

	var req struct {
		AuthorName string `json:"author_name" binding:"required"`
		Message    string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and message are required"})
		return
	}

	req.AuthorName = strings.TrimSpace(req.AuthorName)
	req.Message = strings.TrimSpace(req.Message)
	if req.AuthorName == "" || req.Message == "" || len(req.Message) > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and message are required"})
		return
	}

	entry := memorials.GuestbookEntry{
		MemorialID: m.ID,
		AuthorName: req.AuthorName,
		Message:    req.Message,
		Approved:   true,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign guestbook"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ------------------------------
// POST /m/:slug/prayer-list  (signed-in only)
// ------------------------------
func JoinPrayerList(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to join the prayer list"})
		return
	}

	m, ok := loadPublished(c, c.Param("slug"))
	if !ok {
		return
	}
	if !authorize(c, m) {
		return
	}

	entry := memorials.PrayerListEntry{MemorialID: m.ID, UserID: userID}
	err := database.DB.Where(entry).FirstOrCreate(&entry).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join prayer list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "joined"})
}

// ------------------------------
// DELETE /m/:slug/prayer-list
// ------------------------------
func LeavePrayerList(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in first"})
		return
	}

	m, ok := loadPublished(c, c.Param("slug"))
	if !ok {
		return
	}

	res := database.DB.Where("memorial_id = ? AND user_id = ?", m.ID, userID).
		Delete(&memorials.PrayerListEntry{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave prayer list"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not on the prayer list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

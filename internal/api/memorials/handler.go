package memorials

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"memorial-app/database"
	"memorial-app/internal/domain/media"
	"memorial-app/internal/domain/memorials"
	"memorial-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// loadEditable fetches a memorial and checks the caller may modify it.
// A missing row and a row the caller may not see both read as 404 so
// existence is not leaked.
func loadEditable(c *gin.Context, id string, userID uint) (*memorials.Memorial, bool) {
	var m memorials.Memorial
	err := database.DB.Preload("Contributors").Preload("Photos").
		Where("id = ?", id).First(&m).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
		return nil, false
	}
	if !memorials.CanEdit(&m, userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
		return nil, false
	}
	return &m, true
}

// ------------------------------
// POST /memorials  (create half of create-or-update)
// ------------------------------
func CreateMemorial(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req memorials.Memorial
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := memorials.Memorial{
		UserID:  userID,
		Status:  memorials.StatusDraft,
		Privacy: memorials.PrivacyPublic,
	}
	if ok := applyContent(c, &m, &req); !ok {
		return
	}

	if err := database.DB.Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "This URL is already taken", "code": "slug_taken"})
			return
		}
		log.Error().Err(err).Uint("user_id", userID).Msg("memorial insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save memorial"})
		return
	}

	c.JSON(http.StatusCreated, m)
}

// ------------------------------
// PUT /memorials/:id  (update half of create-or-update)
//
// Concurrent updates to the same row are not reconciled: the last
// writer wins. Editing is single-writer per session in practice.
// ------------------------------
func UpdateMemorial(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	m, ok := loadEditable(c, c.Param("id"), userID)
	if !ok {
		return
	}

	var req memorials.Memorial
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ok := applyContent(c, m, &req); !ok {
		return
	}

	if err := database.DB.Save(m).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "This URL is already taken", "code": "slug_taken"})
			return
		}
		log.Error().Err(err).Str("memorial_id", m.ID).Msg("memorial update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save memorial"})
		return
	}

	c.JSON(http.StatusOK, m)
}

// applyContent copies the caller-editable fields from req onto m.
// Lifecycle and payment fields never come from the request body.
func applyContent(c *gin.Context, m, req *memorials.Memorial) bool {
	m.FirstName = req.FirstName
	m.MiddleName = req.MiddleName
	m.LastName = req.LastName
	m.Nickname = req.Nickname
	m.Title = req.Title
	m.Headline = req.Headline
	m.BirthDate = req.BirthDate
	m.DeathDate = req.DeathDate
	m.Obituary = req.Obituary
	m.Biography = req.Biography
	m.ServiceDetails = req.ServiceDetails

	if req.Privacy != "" {
		switch req.Privacy {
		case memorials.PrivacyPublic, memorials.PrivacyPrivate, memorials.PrivacyPasswordProtected:
			m.Privacy = req.Privacy
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown privacy mode"})
			return false
		}
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return false
		}
		h := string(hashed)
		m.PasswordHash = &h
	}

	if req.CustomURL == nil || *req.CustomURL == "" {
		m.CustomURL = nil
	} else {
		u := strings.TrimSpace(*req.CustomURL)
		if issues := memorials.CustomURLIssues(u); len(issues) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(issues, "; ")})
			return false
		}
		m.CustomURL = &u
	}

	return true
}

// ------------------------------
// GET /memorials/:id
// ------------------------------
func GetMemorial(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var m memorials.Memorial
	err := accessibleQuery(database.DB, userID).
		Preload("Photos").Preload("Contributors").
		Where("id = ?", c.Param("id")).First(&m).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
		return
	}

	c.JSON(http.StatusOK, m)
}

// ------------------------------
// GET /memorials  (own + contributed)
// ------------------------------
func ListMemorials(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var list []memorials.Memorial
	err := accessibleQuery(database.DB, userID).
		Preload("Photos").
		Order("updated_at DESC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load memorials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"memorials": list})
}

// ------------------------------
// DELETE /memorials/:id  (owner only)
// ------------------------------
func DeleteMemorial(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
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

	if err := database.DB.Delete(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete memorial"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ------------------------------
// GET /memorials/check-url?u=...&exclude=<id>
// ------------------------------
func CheckURLAvailability(c *gin.Context) {
	u := strings.TrimSpace(c.Query("u"))
	if u == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing u parameter"})
		return
	}

	if issues := memorials.CustomURLIssues(u); len(issues) > 0 {
		c.JSON(http.StatusOK, gin.H{"available": false, "reason": strings.Join(issues, "; ")})
		return
	}

	q := database.DB.Model(&memorials.Memorial{}).Where("custom_url = ?", u)
	if exclude := c.Query("exclude"); exclude != "" {
		q = q.Where("id <> ?", exclude)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": count == 0})
}

// ------------------------------
// POST /memorials/:id/contributors  (owner only)
// ------------------------------
func AddContributor(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var m memorials.Memorial
	if err := database.DB.Where("id = ?", c.Param("id")).First(&m).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
		return
	}
	if !memorials.IsOwner(&m, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can manage contributors"})
		return
	}

	var req struct {
		Email   string `json:"email" binding:"required,email"`
		CanEdit bool   `json:"can_edit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var contributor users.User
	if err := database.DB.Where("email = ?", req.Email).First(&contributor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No account with that email"})
		return
	}
	if contributor.ID == userID {
		c.JSON(http.StatusConflict, gin.H{"error": "You already own this memorial"})
		return
	}

	entry := memorials.MemorialContributor{
		MemorialID: m.ID,
		UserID:     contributor.ID,
		CanEdit:    req.CanEdit,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("memorial_id = ? AND user_id = ?", m.ID, contributor.ID).
			Delete(&memorials.MemorialContributor{}).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add contributor"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ------------------------------
// DELETE /memorials/:id/contributors/:userID  (owner only)
// ------------------------------
func RemoveContributor(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var m memorials.Memorial
	if err := database.DB.Where("id = ?", c.Param("id")).First(&m).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memorial not found"})
		return
	}
	if !memorials.IsOwner(&m, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can manage contributors"})
		return
	}

	removeID, err := strconv.ParseUint(c.Param("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	res := database.DB.Where("memorial_id = ? AND user_id = ?", m.ID, uint(removeID)).
		Delete(&memorials.MemorialContributor{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove contributor"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contributor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// ------------------------------
// POST /memorials/:id/photos
// ------------------------------
func AddPhoto(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	m, ok := loadEditable(c, c.Param("id"), userID)
	if !ok {
		return
	}

	var req struct {
		PublicID   string `json:"public_id" binding:"required"`
		URL        string `json:"url" binding:"required"`
		ThumbURL   string `json:"thumb_url"`
		GalleryURL string `json:"gallery_url"`
		HeroURL    string `json:"hero_url"`
		ProfileURL string `json:"profile_url"`
		Caption    string `json:"caption"`
		SortIndex  int    `json:"sort_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo := media.Photo{
		MemorialID: m.ID,
		PublicID:   req.PublicID,
		URL:        req.URL,
		ThumbURL:   req.ThumbURL,
		GalleryURL: req.GalleryURL,
		HeroURL:    req.HeroURL,
		ProfileURL: req.ProfileURL,
		Caption:    req.Caption,
		SortIndex:  req.SortIndex,
	}
	if err := database.DB.Create(&photo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add photo"})
		return
	}

	c.JSON(http.StatusCreated, photo)
}

// ------------------------------
// DELETE /memorials/:id/photos/:photoID
// ------------------------------
func DeletePhoto(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	m, ok := loadEditable(c, c.Param("id"), userID)
	if !ok {
		return
	}

	res := database.DB.Where("id = ? AND memorial_id = ?", c.Param("photoID"), m.ID).
		Delete(&media.Photo{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete photo"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Photo not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

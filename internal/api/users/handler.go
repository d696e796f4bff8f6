package users

import (
	"net/http"

	"memorial-app/database"
	"memorial-app/internal/domain/memorials"
	"memorial-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type UserDTO struct {
	ID           uint   `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AuthProvider string `json:"auth_provider"`
}

type MeResponse struct {
	User           UserDTO `json:"user"`
	MemorialCount  int64   `json:"memorial_count"`
	PublishedCount int64   `json:"published_count"`
}

func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var total, published int64
	database.DB.Model(&memorials.Memorial{}).
		Where("user_id = ?", user.ID).Count(&total)
	database.DB.Model(&memorials.Memorial{}).
		Where("user_id = ? AND status = ?", user.ID, memorials.StatusPublished).Count(&published)

	c.JSON(http.StatusOK, MeResponse{
		User: UserDTO{
			ID:           user.ID,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			Email:        user.Email,
			Role:         user.Role,
			AuthProvider: user.AuthProvider,
		},
		MemorialCount:  total,
		PublishedCount: published,
	})
}

package memorials

import (
	"gorm.io/gorm"
)

// ownedQuery scopes memorials to the ones the account created.
func ownedQuery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where("user_id = ?", userID)
}

// accessibleQuery scopes memorials to owned plus contributed ones.
func accessibleQuery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where(
		"user_id = ? OR id IN (SELECT memorial_id FROM memorial_contributors WHERE user_id = ?)",
		userID, userID,
	)
}

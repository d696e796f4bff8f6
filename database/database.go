package database

import (
	"os"

	"memorial-app/internal/domain/billing"
	"memorial-app/internal/domain/media"
	"memorial-app/internal/domain/memorials"
	"memorial-app/internal/domain/users"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal().Msg("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	DB = db

	// Required for gen_random_uuid() defaults.
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to enable pgcrypto extension")
	}

	if err := DB.AutoMigrate(
		// core
		&users.User{},
		&billing.Payment{},

		// memorials
		&memorials.Memorial{},
		&memorials.MemorialContributor{},
		&memorials.GuestbookEntry{},
		&memorials.PrayerListEntry{},

		// media
		&media.Photo{},
	); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate error")
	}

	log.Info().Msg("database connected and migrated")
}

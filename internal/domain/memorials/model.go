package memorials

import (
	"time"

	"memorial-app/internal/domain/media"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

const (
	PrivacyPublic            = "public"
	PrivacyPrivate           = "private"
	PrivacyPasswordProtected = "password_protected"
)

// Payment status values on the memorial row. Empty string means no
// checkout has been started yet.
const (
	PaymentNone    = ""
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

type Memorial struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	UserID uint `gorm:"not null;index" json:"-"`

	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
	Nickname   string `json:"nickname,omitempty"`

	Title    string `json:"title"`
	Headline string `json:"headline,omitempty"`

	BirthDate *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	DeathDate *time.Time `gorm:"type:date" json:"death_date,omitempty"`

	Obituary  string `gorm:"type:text" json:"obituary,omitempty"`
	Biography string `gorm:"type:text" json:"biography,omitempty"`

	ServiceDetails string `gorm:"type:text" json:"service_details,omitempty"`

	Privacy string `gorm:"not null;default:'public'" json:"privacy"`
	// Password carries the raw page password from the wizard to the
	// server; only the bcrypt hash is persisted.
	Password     string  `gorm:"-" json:"password,omitempty"`
	PasswordHash *string `json:"-"`
	CustomURL    *string `gorm:"uniqueIndex:idx_memorials_custom_url" json:"custom_url,omitempty"`

	Status        string `gorm:"not null;default:'draft';index" json:"status"`
	PaymentStatus string `gorm:"not null;default:''" json:"payment_status"`

	StripeSessionID *string    `gorm:"index" json:"-"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`

	Photos       []media.Photo         `gorm:"foreignKey:MemorialID;constraint:OnDelete:CASCADE;" json:"photos,omitempty"`
	Contributors []MemorialContributor `gorm:"foreignKey:MemorialID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemorialContributor grants another account edit access to a memorial.
// Ownership itself never moves; the creator stays the owner.
type MemorialContributor struct {
	MemorialID string `gorm:"type:uuid;primaryKey" json:"memorial_id"`
	UserID     uint   `gorm:"primaryKey" json:"user_id"`

	CanEdit bool `gorm:"not null;default:false" json:"can_edit"`

	CreatedAt time.Time `json:"created_at"`
}

type GuestbookEntry struct {
	ID         string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MemorialID string `gorm:"type:uuid;not null;index" json:"-"`

	AuthorName string `gorm:"not null" json:"author_name"`
	Message    string `gorm:"type:text;not null" json:"message"`
	Approved   bool   `gorm:"not null;default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type PrayerListEntry struct {
	MemorialID string `gorm:"type:uuid;primaryKey" json:"memorial_id"`
	UserID     uint   `gorm:"primaryKey" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

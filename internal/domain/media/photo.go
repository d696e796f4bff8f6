package media

import "time"

// Photo is a reference to an image hosted on the media CDN. The CDN
// derives per-context crops from the original; we only store the URLs.
type Photo struct {
	ID         string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MemorialID string `gorm:"type:uuid;not null;index:idx_photos_memorial_sort,priority:1" json:"-"`

	PublicID   string `gorm:"not null" json:"public_id"`
	URL        string `gorm:"not null" json:"url"`
	ThumbURL   string `json:"thumb_url,omitempty"`
	GalleryURL string `json:"gallery_url,omitempty"`
	HeroURL    string `json:"hero_url,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`

	Caption   string `json:"caption,omitempty"`
	SortIndex int    `gorm:"not null;default:0;index:idx_photos_memorial_sort,priority:2" json:"sort_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

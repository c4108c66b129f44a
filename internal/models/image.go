package models

import "time"

// Image is an uploaded picture. Data holds the bytes when they are stored inline,
// otherwise StorageKey points into the configured blob store.
type Image struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	MimeType   string    `json:"mime_type" gorm:"type:varchar(100);not null"`
	Data       []byte    `json:"-"`
	StorageKey string    `json:"-" gorm:"type:varchar(255)"`
	EntityType string    `json:"entity_type,omitempty" gorm:"type:varchar(50);index:idx_images_entity"`
	EntityID   string    `json:"entity_id,omitempty" gorm:"type:varchar(36);index:idx_images_entity"`
	CreatedAt  time.Time `json:"created_at"`
}

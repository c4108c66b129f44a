package models

import "time"

// Venue is a location events take place at.
type Venue struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string      `json:"name" gorm:"type:varchar(255);not null"`
	Street    string      `json:"street,omitempty" gorm:"type:varchar(255)"`
	CityID    string      `json:"city_id" gorm:"type:varchar(36);not null;index"`
	City      *City       `json:"city,omitempty" gorm:"foreignKey:CityID"`
	ImageID   *string     `json:"image_id,omitempty" gorm:"type:varchar(36)"`
	Areas     []VenueArea `json:"areas,omitempty" gorm:"foreignKey:VenueID"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// VenueArea is an area of a venue with its maximum capacity.
type VenueArea struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	VenueID     string `json:"venue_id" gorm:"type:varchar(36);not null;index"`
	AreaID      string `json:"area_id" gorm:"type:varchar(36);not null"`
	Area        *Area  `json:"area,omitempty" gorm:"foreignKey:AreaID"`
	MaxCapacity int    `json:"max_capacity" gorm:"not null"`
}

package models

import "time"

// Tour is a series of events by one or more artists.
type Tour struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string         `json:"title" gorm:"type:varchar(255);not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	StartDate   time.Time      `json:"start_date" gorm:"not null"`
	EndDate     time.Time      `json:"end_date" gorm:"not null"`
	ImageID     *string        `json:"image_id,omitempty" gorm:"type:varchar(36)"`
	Artists     []TourArtist   `json:"artists,omitempty" gorm:"foreignKey:TourID"`
	Subgenres   []TourSubgenre `json:"subgenres,omitempty" gorm:"foreignKey:TourID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TourArtist is a row of the tour_artists join table.
type TourArtist struct {
	TourID   string  `json:"tour_id" gorm:"primaryKey;type:varchar(36)"`
	ArtistID string  `json:"artist_id" gorm:"primaryKey;type:varchar(36)"`
	Artist   *Artist `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
}

// TourSubgenre is a row of the tour_subgenres join table.
type TourSubgenre struct {
	TourID     string    `json:"tour_id" gorm:"primaryKey;type:varchar(36)"`
	SubgenreID string    `json:"subgenre_id" gorm:"primaryKey;type:varchar(36)"`
	Subgenre   *Subgenre `json:"subgenre,omitempty" gorm:"foreignKey:SubgenreID"`
}

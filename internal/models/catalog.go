package models

import "time"

// Country is a country venues are located in.
type Country struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
}

// City belongs to a country.
type City struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name       string   `json:"name" gorm:"type:varchar(100);not null"`
	PostalCode string   `json:"postal_code,omitempty" gorm:"type:varchar(20)"`
	CountryID  string   `json:"country_id" gorm:"type:varchar(36);not null;index"`
	Country    *Country `json:"country,omitempty" gorm:"foreignKey:CountryID"`
}

// Area is a named kind of zone ("Innenraum", "Tribüne") that venues are split into.
type Area struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
}

// Artist performs on tours and as supporting act at events.
type Artist struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	ImageID     *string   `json:"image_id,omitempty" gorm:"type:varchar(36)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Genre groups subgenres.
type Genre struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string     `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Subgenres []Subgenre `json:"subgenres,omitempty" gorm:"foreignKey:GenreID"`
}

// Subgenre belongs to exactly one genre.
type Subgenre struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name    string `json:"name" gorm:"type:varchar(100);not null"`
	GenreID string `json:"genre_id" gorm:"type:varchar(36);not null;index"`
	Genre   *Genre `json:"genre,omitempty" gorm:"foreignKey:GenreID"`
}

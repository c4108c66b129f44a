package models

import "time"

// Event is a single date of a tour at a venue.
type Event struct {
	ID             string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TourID         string               `json:"tour_id" gorm:"type:varchar(36);not null;index"`
	Tour           *Tour                `json:"tour,omitempty" gorm:"foreignKey:TourID"`
	VenueID        string               `json:"venue_id" gorm:"type:varchar(36);not null;index"`
	Venue          *Venue               `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
	DoorTime       time.Time            `json:"door_time" gorm:"not null"`
	StartTime      time.Time            `json:"start_time" gorm:"not null"`
	EndTime        time.Time            `json:"end_time" gorm:"not null"`
	SupportingActs []EventSupportingAct `json:"supporting_acts,omitempty" gorm:"foreignKey:EventID"`
	Categories     []EventCategory      `json:"categories,omitempty" gorm:"foreignKey:EventID"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// EventSupportingAct is a row of the event_supporting_acts join table.
type EventSupportingAct struct {
	EventID  string  `json:"event_id" gorm:"primaryKey;type:varchar(36)"`
	ArtistID string  `json:"artist_id" gorm:"primaryKey;type:varchar(36)"`
	Artist   *Artist `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
}

// EventCategory is a priced ticket tier of an event. When DisabilitySupportFor is set,
// only users holding that disability mark may book it.
type EventCategory struct {
	ID                   string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	EventID              string           `json:"event_id" gorm:"type:varchar(36);not null;index"`
	Name                 string           `json:"name" gorm:"type:varchar(255);not null"`
	Price                float64          `json:"price" gorm:"not null"`
	DisabilitySupportFor *string          `json:"disability_support_for" gorm:"type:varchar(10)"`
	VenueAreas           []EventVenueArea `json:"venue_areas,omitempty" gorm:"foreignKey:EventCategoryID"`
}

// IsDisabilityCategory reports whether the category is restricted to a disability mark.
func (c *EventCategory) IsDisabilityCategory() bool {
	return c.DisabilitySupportFor != nil
}

// EventVenueArea is the capacity of a venue area allocated to one event category.
type EventVenueArea struct {
	EventCategoryID string     `json:"event_category_id" gorm:"primaryKey;type:varchar(36)"`
	VenueAreaID     string     `json:"venue_area_id" gorm:"primaryKey;type:varchar(36)"`
	VenueArea       *VenueArea `json:"venue_area,omitempty" gorm:"foreignKey:VenueAreaID"`
	Capacity        int        `json:"capacity" gorm:"not null"`
}

package models

import "time"

// User represents a registered customer. Disability information is self-reported.
type User struct {
	ID                    string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FirstName             string           `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName              string           `json:"last_name" gorm:"type:varchar(100);not null"`
	Email                 string           `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash          string           `json:"-" gorm:"type:varchar(255);not null"` // No json tag for security
	Phone                 string           `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Street                string           `json:"street,omitempty" gorm:"type:varchar(255)"`
	PostalCode            string           `json:"postal_code,omitempty" gorm:"type:varchar(20)"`
	City                  string           `json:"city,omitempty" gorm:"type:varchar(100)"`
	HasDisability         bool             `json:"has_disability" gorm:"not null;default:false"`
	DisabilityDegree      *int             `json:"disability_degree,omitempty"`
	DisabilityCardImageID *string          `json:"disability_card_image_id,omitempty" gorm:"type:varchar(36)"`
	IsAdmin               bool             `json:"is_admin" gorm:"not null;default:false"`
	Marks                 []DisabilityMark `json:"disability_marks" gorm:"-"` // Loaded from user_disability_marks
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// MarkCodes returns the codes of the marks the user holds.
func (u *User) MarkCodes() []string {
	codes := make([]string, 0, len(u.Marks))
	for _, m := range u.Marks {
		codes = append(codes, m.Code)
	}
	return codes
}

// DisabilityMark is a Merkzeichen from the German disability card (e.g. "G", "aG", "B").
type DisabilityMark struct {
	Code        string `json:"code" gorm:"primaryKey;type:varchar(10)"`
	Description string `json:"description" gorm:"type:varchar(255)"`
}

// UserDisabilityMark links a user to a disability mark.
type UserDisabilityMark struct {
	UserID   string `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	MarkCode string `json:"mark_code" gorm:"primaryKey;type:varchar(10)"`
}

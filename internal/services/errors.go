package services

import (
	"errors"
	"fmt"
)

// ValidationError is a client input error. Field names the offending input, including its
// position for nested arrays (for example "genres[1].subgenre_ids").
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var (
	// ErrEmailTaken is returned by registration when the email already belongs to a user.
	ErrEmailTaken = errors.New("Diese E-Mail-Adresse ist bereits registriert.")
	// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = errors.New("Ungültige E-Mail-Adresse oder ungültiges Passwort.")
	// ErrAlreadyInCart is returned when the viewer already has a cart row for the category.
	ErrAlreadyInCart = errors.New("Diese Kategorie befindet sich bereits im Warenkorb.")
	// ErrCartLimitExceeded is returned when a regular cart row would hold more than
	// models.MaxRegularTickets tickets.
	ErrCartLimitExceeded = errors.New("Pro Kategorie können maximal 8 Tickets in den Warenkorb gelegt werden.")
	// ErrNotEligible is returned when the viewer does not hold the mark a disability category requires.
	ErrNotEligible = errors.New("Diese Kategorie ist für Ihr Profil nicht verfügbar.")
	// ErrUnauthorized is returned when a token is missing, expired or malformed.
	ErrUnauthorized = errors.New("unauthorized")
)

// Package ticketing resolves which event categories a viewer may book and drives the
// add-to-cart interaction of the ticket selection view.
package ticketing

import (
	"strings"

	"eventim/internal/models"
)

// Viewer is the person looking at an event page. The zero value is an anonymous viewer.
type Viewer struct {
	UserID        string
	HasDisability bool
	Marks         []string
}

// ViewerFromUser builds a Viewer from a loaded user. A nil user is anonymous.
func ViewerFromUser(u *models.User) Viewer {
	if u == nil {
		return Viewer{}
	}
	return Viewer{UserID: u.ID, HasDisability: u.HasDisability, Marks: u.MarkCodes()}
}

// LoggedIn reports whether the viewer is authenticated.
func (v Viewer) LoggedIn() bool { return v.UserID != "" }

// Holds reports whether the viewer may book categories restricted to mark.
func (v Viewer) Holds(mark string) bool {
	if !v.LoggedIn() || !v.HasDisability {
		return false
	}
	mark = strings.TrimSpace(mark)
	if mark == "" {
		return false
	}
	for _, m := range v.Marks {
		if strings.TrimSpace(m) == mark {
			return true
		}
	}
	return false
}

// Eligible reports whether the viewer may see and book c.
func Eligible(c models.EventCategory, v Viewer) bool {
	if c.DisabilitySupportFor == nil {
		return true
	}
	return v.Holds(*c.DisabilitySupportFor)
}

// Partition splits categories into the disability categories the viewer holds the mark
// for and the regular categories. Restricted categories the viewer may not book end up
// in neither set. Input order is preserved.
func Partition(categories []models.EventCategory, v Viewer) (disability, regular []models.EventCategory) {
	disability = []models.EventCategory{}
	regular = []models.EventCategory{}
	for _, c := range categories {
		switch {
		case c.DisabilitySupportFor == nil:
			regular = append(regular, c)
		case v.Holds(*c.DisabilitySupportFor):
			disability = append(disability, c)
		}
	}
	return disability, regular
}

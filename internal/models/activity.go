package models

// Activity is a named extracurricular offering.
type Activity struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Schedule        *string `json:"schedule"`
	MaxParticipants *int    `json:"max_participants"` // nil means unlimited
}

// HasCapacityLimit reports whether signups are bounded for the activity.
// A zero or negative limit is treated as unlimited.
func (a Activity) HasCapacityLimit() bool {
	return a.MaxParticipants != nil && *a.MaxParticipants > 0
}

// Participant is a student registration for an activity.
type Participant struct {
	ID         int64  `json:"id"`
	ActivityID int64  `json:"activity_id"`
	Email      string `json:"email"`
}

// CatalogEntry is the public view of an activity in the catalogue listing.
type CatalogEntry struct {
	Description     *string  `json:"description"`
	Schedule        *string  `json:"schedule"`
	MaxParticipants *int     `json:"max_participants"`
	Participants    []string `json:"participants"`
}

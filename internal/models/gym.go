package models

import "time"

// Gym represents a gym the user visits.
type Gym struct {
	// ID is the unique identifier for the gym (UUID format).
	// Generated at creation and never changed afterwards.
	ID string `json:"id"`

	// Name is the display name of the gym (e.g., "Iron Works").
	Name string `json:"name"`

	// Address is the street address of the gym.
	Address string `json:"address"`

	// Notes is optional free text (opening hours, parking, ...).
	Notes string `json:"notes,omitempty"`

	// CreatedAt is when the gym was first recorded.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// GymInput holds the caller-supplied fields for a new gym.
type GymInput struct {
	Name    string
	Address string
	Notes   string
}

// GymUpdate is a partial update. Nil fields are left untouched.
type GymUpdate struct {
	Name    *string
	Address *string
	Notes   *string
}

// Apply copies the non-nil fields onto gym. It never touches ID or timestamps.
func (u GymUpdate) Apply(gym *Gym) {
	if u.Name != nil {
		gym.Name = *u.Name
	}
	if u.Address != nil {
		gym.Address = *u.Address
	}
	if u.Notes != nil {
		gym.Notes = *u.Notes
	}
}

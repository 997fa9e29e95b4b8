package models

import (
	"strings"
	"time"
)

// Equipment represents a single piece of equipment at a gym.
type Equipment struct {
	// ID is the unique identifier for the equipment (UUID format).
	ID string `json:"id"`

	// GymID references the owning Gym.
	GymID string `json:"gymId"`

	// Name is the display name (e.g., "Life Fitness Treadmill").
	Name string `json:"name"`

	// Category groups equipment in lists and exports.
	Category Category `json:"category"`

	// Brand and Model are optional manufacturer details.
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`

	// Notes is optional free text (weight ranges, quirks, ...).
	Notes string `json:"notes,omitempty"`

	// IsAvailable is false when the item is broken or removed.
	// Unavailable equipment is kept but left out of the Markdown export.
	IsAvailable bool `json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Details returns brand and model joined by a space, skipping empty parts.
func (e Equipment) Details() string {
	parts := make([]string, 0, 2)
	if e.Brand != "" {
		parts = append(parts, e.Brand)
	}
	if e.Model != "" {
		parts = append(parts, e.Model)
	}
	return strings.Join(parts, " ")
}

// EquipmentInput holds the caller-supplied fields for new equipment.
type EquipmentInput struct {
	GymID    string
	Name     string
	Category Category
	Brand    string
	Model    string
	Notes    string

	// IsAvailable defaults to true when nil.
	IsAvailable *bool
}

// EquipmentUpdate is a partial update. Nil fields are left untouched.
type EquipmentUpdate struct {
	GymID       *string
	Name        *string
	Category    *Category
	Brand       *string
	Model       *string
	Notes       *string
	IsAvailable *bool
}

// Apply copies the non-nil fields onto item. It never touches ID or timestamps.
func (u EquipmentUpdate) Apply(item *Equipment) {
	if u.GymID != nil {
		item.GymID = *u.GymID
	}
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.Brand != nil {
		item.Brand = *u.Brand
	}
	if u.Model != nil {
		item.Model = *u.Model
	}
	if u.Notes != nil {
		item.Notes = *u.Notes
	}
	if u.IsAvailable != nil {
		item.IsAvailable = *u.IsAvailable
	}
}

package models

import "time"

// ExportNote is the fixed description attached to every export bundle.
const ExportNote = "Gym equipment data export for workout planning"

// WorkoutExport is a point-in-time snapshot of all gyms and equipment.
type WorkoutExport struct {
	Gyms       []Gym       `json:"gyms"`
	Equipment  []Equipment `json:"equipment"`
	ExportDate time.Time   `json:"exportDate"`
	Notes      string      `json:"notes,omitempty"`
}

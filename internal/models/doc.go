// Package models defines the core domain models for gymlog.
//
// # Models
//
//   - Gym: a physical location the user trains at
//   - Equipment: an item available at exactly one Gym
//   - WorkoutExport: the combined snapshot used for JSON/Markdown export
//
// # Design Principles
//
// 1. **Plain data**: models carry no behaviour beyond small helpers; the
// storage layer owns identifiers and timestamps.
// 2. **Wire compatibility**: JSON tags match the files written by earlier
// versions of the app (camelCase keys, ISO-8601 timestamps), so existing
// `gyms.json` / `equipment.json` files load unchanged.
// 3. **IDs, not pointers**: Equipment references its Gym by ID string.
//
// # Referential integrity
//
// Equipment.GymID must name an existing Gym when the equipment is created.
// The storage layer does not enforce this; the service layer does. Deleting a
// Gym cascades to its Equipment inside the storage backend.
package models

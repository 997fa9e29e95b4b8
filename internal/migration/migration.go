// Package migration copies every record from the local backend into the file
// backend in one pass.
package migration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/gymlog/internal/config"
	"github.com/mmynk/gymlog/internal/storage"
)

// Report summarizes one run.
type Report struct {
	// Skipped is set when the process is already configured for file storage.
	Skipped   bool `json:"skipped"`
	Gyms      int  `json:"gyms"`
	Equipment int  `json:"equipment"`
}

// Migrator copies Source into Destination.
type Migrator struct {
	Mode        config.StorageMode
	Source      storage.Store
	Destination storage.Store
}

// Run reads both collections from Source, initializes Destination and writes
// each non-empty collection to it. Re-running overwrites whatever the
// destination holds; records are never merged or deduplicated.
func (m *Migrator) Run(ctx context.Context) (Report, error) {
	if m.Mode == config.ModeFile {
		slog.Info("Already using file storage")
		return Report{Skipped: true}, nil
	}

	slog.Info("Migrating from local storage to file storage")

	gyms, err := m.Source.GetGyms(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read gyms: %w", err)
	}
	equipment, err := m.Source.GetEquipment(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read equipment: %w", err)
	}

	if initializer, ok := m.Destination.(storage.Initializer); ok {
		if err := initializer.Init(ctx); err != nil {
			return Report{}, fmt.Errorf("failed to initialize destination: %w", err)
		}
	}

	var report Report
	if len(gyms) > 0 {
		if err := m.Destination.SaveGyms(ctx, gyms); err != nil {
			return report, fmt.Errorf("failed to write gyms: %w", err)
		}
		report.Gyms = len(gyms)
		slog.Info("Migrated gyms", "count", len(gyms))
	}
	if len(equipment) > 0 {
		if err := m.Destination.SaveEquipment(ctx, equipment); err != nil {
			return report, fmt.Errorf("failed to write equipment: %w", err)
		}
		report.Equipment = len(equipment)
		slog.Info("Migrated equipment", "count", len(equipment))
	}

	slog.Info("Migration complete", "gyms", report.Gyms, "equipment", report.Equipment)
	return report, nil
}

package models

import (
	"fmt"
	"strings"
)

// Category is one of a fixed set of equipment categories.
type Category string

const (
	// Cardio
	CategoryTreadmill      Category = "Treadmill"
	CategoryElliptical     Category = "Elliptical"
	CategoryStationaryBike Category = "Stationary Bike"
	CategoryRowingMachine  Category = "Rowing Machine"
	CategoryStairmaster    Category = "Stairmaster"

	// Free weights
	CategoryBarbell      Category = "Barbell"
	CategoryDumbbell     Category = "Dumbbell"
	CategoryKettlebell   Category = "Kettlebell"
	CategoryWeightPlates Category = "Weight Plates"

	// Strength machines
	CategoryLegPress      Category = "Leg Press"
	CategoryLatPulldown   Category = "Lat Pulldown"
	CategoryChestPress    Category = "Chest Press"
	CategoryShoulderPress Category = "Shoulder Press"
	CategoryLegCurl       Category = "Leg Curl"
	CategoryLegExtension  Category = "Leg Extension"
	CategoryCableMachine  Category = "Cable Machine"
	CategorySmithMachine  Category = "Smith Machine"

	// Functional training
	CategoryPullUpBar  Category = "Pull-up Bar"
	CategoryDipStation Category = "Dip Station"
	CategorySquatRack  Category = "Squat Rack"
	CategoryPowerRack  Category = "Power Rack"
	CategoryBench      Category = "Bench"

	CategoryOther Category = "Other"
)

// DefaultCategory is used when no category is given.
const DefaultCategory = CategoryOther

var categories = []Category{
	CategoryTreadmill,
	CategoryElliptical,
	CategoryStationaryBike,
	CategoryRowingMachine,
	CategoryStairmaster,
	CategoryBarbell,
	CategoryDumbbell,
	CategoryKettlebell,
	CategoryWeightPlates,
	CategoryLegPress,
	CategoryLatPulldown,
	CategoryChestPress,
	CategoryShoulderPress,
	CategoryLegCurl,
	CategoryLegExtension,
	CategoryCableMachine,
	CategorySmithMachine,
	CategoryPullUpBar,
	CategoryDipStation,
	CategorySquatRack,
	CategoryPowerRack,
	CategoryBench,
	CategoryOther,
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a category name case-insensitively.
// An empty string yields DefaultCategory.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCategory, nil
	}
	for _, known := range categories {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown equipment category: %q", s)
}

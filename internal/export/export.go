// Package export renders the gym/equipment dataset as JSON or as a Markdown
// inventory meant to be pasted into a chat assistant for workout planning.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/gymlog/internal/models"
)

// Build assembles an export bundle. Nil collections become empty lists so the
// JSON form always carries arrays.
func Build(gyms []models.Gym, equipment []models.Equipment, now time.Time) models.WorkoutExport {
	if gyms == nil {
		gyms = []models.Gym{}
	}
	if equipment == nil {
		equipment = []models.Equipment{}
	}
	return models.WorkoutExport{
		Gyms:       gyms,
		Equipment:  equipment,
		ExportDate: now,
		Notes:      models.ExportNote,
	}
}

// JSON serializes the bundle indented with two spaces.
func JSON(bundle models.WorkoutExport) (string, error) {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}
	return string(data), nil
}

// ParseJSON reads a bundle previously produced by JSON.
func ParseJSON(data []byte) (models.WorkoutExport, error) {
	var bundle models.WorkoutExport
	if err := json.Unmarshal(data, &bundle); err != nil {
		return models.WorkoutExport{}, fmt.Errorf("failed to decode export: %w", err)
	}
	return bundle, nil
}

// Markdown renders the human-readable inventory. Only available equipment is
// listed; a gym with none still gets its section and a placeholder line.
func Markdown(bundle models.WorkoutExport) string {
	var b strings.Builder

	b.WriteString("# My Gym Equipment Inventory\n\n")
	fmt.Fprintf(&b, "Exported on %s\n\n", bundle.ExportDate.Format("1/2/2006"))

	for _, gym := range bundle.Gyms {
		fmt.Fprintf(&b, "## %s\n", gym.Name)
		fmt.Fprintf(&b, "**Address:** %s\n", gym.Address)
		if gym.Notes != "" {
			fmt.Fprintf(&b, "**Notes:** %s\n", gym.Notes)
		}

		groups := groupAvailable(gym.ID, bundle.Equipment)
		if len(groups) > 0 {
			b.WriteString("\n**Available Equipment:**\n")
			for _, group := range groups {
				fmt.Fprintf(&b, "\n### %s\n", group.category)
				for _, item := range group.items {
					b.WriteString(equipmentLine(item))
					b.WriteString("\n")
				}
			}
		} else {
			b.WriteString("\n*No equipment logged for this gym yet.*\n")
		}

		b.WriteString("\n---\n\n")
	}

	return b.String()
}

type categoryGroup struct {
	category models.Category
	items    []models.Equipment
}

// groupAvailable groups a gym's available equipment by category, keeping the
// order in which each category is first seen.
func groupAvailable(gymID string, equipment []models.Equipment) []categoryGroup {
	var groups []categoryGroup
	index := make(map[models.Category]int)
	for _, item := range equipment {
		if item.GymID != gymID || !item.IsAvailable {
			continue
		}
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, categoryGroup{category: item.Category})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}

func equipmentLine(item models.Equipment) string {
	line := "- " + item.Name
	if details := item.Details(); details != "" {
		line += " (" + details + ")"
	}
	if item.Notes != "" {
		line += " - " + item.Notes
	}
	return line
}

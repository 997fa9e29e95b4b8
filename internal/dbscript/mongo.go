package dbscript

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// gymDocument and equipmentDocument fix the field order and the _id mapping
// of the inserted documents. Empty optionals become null.
type gymDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Address   string    `bson:"address"`
	Notes     *string   `bson:"notes"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type equipmentDocument struct {
	ID          string    `bson:"_id"`
	GymID       string    `bson:"gymId"`
	Name        string    `bson:"name"`
	Category    string    `bson:"category"`
	Brand       *string   `bson:"brand"`
	Model       *string   `bson:"model"`
	Notes       *string   `bson:"notes"`
	IsAvailable bool      `bson:"isAvailable"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mongoScript(data Data, now time.Time) (string, error) {
	gymDocs := make([]any, 0, len(data.Gyms))
	for _, gym := range data.Gyms {
		gymDocs = append(gymDocs, gymDocument{
			ID:        gym.ID,
			Name:      gym.Name,
			Address:   gym.Address,
			Notes:     optional(gym.Notes),
			CreatedAt: gym.CreatedAt,
			UpdatedAt: gym.UpdatedAt,
		})
	}
	gymsJSON, err := extJSONArray(gymDocs)
	if err != nil {
		return "", fmt.Errorf("failed to encode gyms: %w", err)
	}

	equipmentDocs := make([]any, 0, len(data.Equipment))
	for _, item := range data.Equipment {
		equipmentDocs = append(equipmentDocs, equipmentDocument{
			ID:          item.ID,
			GymID:       item.GymID,
			Name:        item.Name,
			Category:    string(item.Category),
			Brand:       optional(item.Brand),
			Model:       optional(item.Model),
			Notes:       optional(item.Notes),
			IsAvailable: item.IsAvailable,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	equipmentJSON, err := extJSONArray(equipmentDocs)
	if err != nil {
		return "", fmt.Errorf("failed to encode equipment: %w", err)
	}

	var b strings.Builder
	b.WriteString("// MongoDB migration script for gym equipment data\n")
	fmt.Fprintf(&b, "// Generated on %s\n\n", now.UTC().Format(isoMillis))
	b.WriteString("// Switch to gym equipment database\nuse gym_equipment_db;\n\n")
	b.WriteString("// Clear existing collections\ndb.gyms.deleteMany({});\ndb.equipment.deleteMany({});\n\n")
	// EJSON.deserialize turns {"$date": ...} back into Date values.
	fmt.Fprintf(&b, "// Insert gyms\ndb.gyms.insertMany(EJSON.deserialize(%s));\n\n", gymsJSON)
	fmt.Fprintf(&b, "// Insert equipment\ndb.equipment.insertMany(EJSON.deserialize(%s));\n\n", equipmentJSON)
	b.WriteString("// Create indexes for better performance\n")
	b.WriteString("db.gyms.createIndex({ \"name\": 1 });\n")
	b.WriteString("db.equipment.createIndex({ \"gymId\": 1 });\n")
	b.WriteString("db.equipment.createIndex({ \"category\": 1 });\n")
	b.WriteString("db.equipment.createIndex({ \"isAvailable\": 1 });\n\n")
	b.WriteString("console.log(\"Migration completed!\");\n")
	fmt.Fprintf(&b, "console.log(\"Gyms inserted:\", %d);\n", len(data.Gyms))
	fmt.Fprintf(&b, "console.log(\"Equipment items inserted:\", %d);", len(data.Equipment))
	return b.String(), nil
}

// extJSONArray renders docs as an indented array of relaxed Extended JSON
// documents. bson only marshals documents at the top level, so the array
// brackets are written by hand.
func extJSONArray(docs []any) (string, error) {
	if len(docs) == 0 {
		return "[]", nil
	}
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		out, err := bson.MarshalExtJSONIndent(doc, false, false, "  ", "  ")
		if err != nil {
			return "", err
		}
		parts = append(parts, "  "+string(out))
	}
	return "[\n" + strings.Join(parts, ",\n") + "\n]", nil
}

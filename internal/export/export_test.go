package export

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/gymlog/internal/models"
)

var exportedAt = time.Date(2025, time.March, 7, 18, 30, 0, 0, time.UTC)

func sampleData() ([]models.Gym, []models.Equipment) {
	created := time.Date(2025, time.January, 2, 8, 0, 0, 123000000, time.UTC)
	gyms := []models.Gym{
		{ID: "g1", Name: "Iron Works", Address: "1 Main St", Notes: "Open 24/7", CreatedAt: created, UpdatedAt: created},
		{ID: "g2", Name: "Hotel Gym", Address: "5 Beach Rd", CreatedAt: created, UpdatedAt: created},
	}
	equipment := []models.Equipment{
		{ID: "e1", GymID: "g1", Name: "Life Fitness Treadmill", Category: models.CategoryTreadmill, Brand: "Life Fitness", Model: "T3", Notes: "High-end cardio", IsAvailable: true, CreatedAt: created, UpdatedAt: created},
		{ID: "e2", GymID: "g1", Name: "Olympic Barbell", Category: models.CategoryBarbell, Brand: "Rogue", IsAvailable: true, CreatedAt: created, UpdatedAt: created},
		{ID: "e3", GymID: "g1", Name: "Second Treadmill", Category: models.CategoryTreadmill, IsAvailable: true, CreatedAt: created, UpdatedAt: created},
		{ID: "e4", GymID: "g1", Name: "Broken Rower", Category: models.CategoryRowingMachine, IsAvailable: false, CreatedAt: created, UpdatedAt: created},
		{ID: "e5", GymID: "g2", Name: "Rusty Bench", Category: models.CategoryBench, IsAvailable: false, CreatedAt: created, UpdatedAt: created},
	}
	return gyms, equipment
}

func TestMarkdown(t *testing.T) {
	gyms, equipment := sampleData()
	got := Markdown(Build(gyms, equipment, exportedAt))

	want := "# My Gym Equipment Inventory\n\n" +
		"Exported on 3/7/2025\n\n" +
		"## Iron Works\n" +
		"**Address:** 1 Main St\n" +
		"**Notes:** Open 24/7\n" +
		"\n**Available Equipment:**\n" +
		"\n### Treadmill\n" +
		"- Life Fitness Treadmill (Life Fitness T3) - High-end cardio\n" +
		"- Second Treadmill\n" +
		"\n### Barbell\n" +
		"- Olympic Barbell (Rogue)\n" +
		"\n---\n\n" +
		"## Hotel Gym\n" +
		"**Address:** 5 Beach Rd\n" +
		"\n*No equipment logged for this gym yet.*\n" +
		"\n---\n\n"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownOmitsUnavailableEquipment(t *testing.T) {
	gyms, equipment := sampleData()
	got := Markdown(Build(gyms, equipment, exportedAt))

	require.NotContains(t, got, "Broken Rower")
	require.NotContains(t, got, "Rusty Bench")
	require.Contains(t, got, "## Hotel Gym")
}

func TestMarkdownEmpty(t *testing.T) {
	got := Markdown(Build(nil, nil, exportedAt))
	require.Equal(t, "# My Gym Equipment Inventory\n\nExported on 3/7/2025\n\n", got)
}

func TestJSONRoundTrip(t *testing.T) {
	gyms, equipment := sampleData()
	bundle := Build(gyms, equipment, exportedAt)

	encoded, err := JSON(bundle)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "{\n  \"gyms\": ["), "expected two-space indentation, got %q", encoded[:20])
	require.Contains(t, encoded, `"notes": "Gym equipment data export for workout planning"`)
	require.Contains(t, encoded, `"gymId": "g1"`)

	decoded, err := ParseJSON([]byte(encoded))
	require.NoError(t, err)

	if diff := cmp.Diff(bundle, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildUsesEmptyArrays(t *testing.T) {
	encoded, err := JSON(Build(nil, nil, exportedAt))
	require.NoError(t, err)
	require.Contains(t, encoded, `"gyms": []`)
	require.Contains(t, encoded, `"equipment": []`)
}

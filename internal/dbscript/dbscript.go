// Package dbscript turns the file service's JSON files into standalone
// migration scripts for MySQL, PostgreSQL, SQLite or MongoDB.
//
// The scripts are flat and meant for review before they are run: values are
// inlined with single quotes doubled, there is no parameterization and no
// transaction around the inserts.
package dbscript

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmynk/gymlog/internal/models"
)

// Dialect is a supported target database.
type Dialect string

const (
	MySQL      Dialect = "mysql"
	PostgreSQL Dialect = "postgresql"
	SQLite     Dialect = "sqlite"
	MongoDB    Dialect = "mongodb"
)

// ErrUnsupportedDialect is returned for unknown database types.
var ErrUnsupportedDialect = errors.New("unsupported database type")

// Dialects lists every supported dialect in display order.
func Dialects() []Dialect {
	return []Dialect{MySQL, PostgreSQL, SQLite, MongoDB}
}

// ParseDialect accepts the exact lowercase names.
func ParseDialect(s string) (Dialect, error) {
	for _, d := range Dialects() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, s)
}

// Extension is the file extension of the generated script.
func (d Dialect) Extension() string {
	if d == MongoDB {
		return "js"
	}
	return "sql"
}

// DefaultOutput is the file name used when none is given.
func (d Dialect) DefaultOutput() string {
	return fmt.Sprintf("migration_%s.%s", d, d.Extension())
}

// NextSteps tells the user how to run the script at output.
func (d Dialect) NextSteps(output string) []string {
	switch d {
	case MySQL:
		return []string{
			"1. Connect to MySQL: mysql -u username -p",
			"2. Run the script: source " + output,
		}
	case PostgreSQL:
		return []string{
			"1. Connect to PostgreSQL: psql -U username",
			`2. Run the script: \i ` + output,
		}
	case SQLite:
		return []string{
			"1. Create/connect to SQLite: sqlite3 gym_equipment.db",
			"2. Run the script: .read " + output,
		}
	case MongoDB:
		return []string{
			"1. Connect to MongoDB: mongosh",
			fmt.Sprintf("2. Run the script: load('%s')", output),
		}
	}
	return nil
}

// Data is the dataset a script is generated from.
type Data struct {
	Gyms      []models.Gym
	Equipment []models.Equipment
}

// Empty reports whether there is nothing to migrate.
func (d Data) Empty() bool {
	return len(d.Gyms) == 0 && len(d.Equipment) == 0
}

// ReadDataDir loads gyms.json and equipment.json from dir. A file that is
// missing or unreadable is logged and treated as an empty collection.
func ReadDataDir(dir string) Data {
	var data Data
	if err := readJSON(filepath.Join(dir, "gyms.json"), &data.Gyms); err != nil {
		slog.Warn("No gyms file found or error reading it", "error", err)
		data.Gyms = nil
	} else {
		slog.Info("Found gyms", "count", len(data.Gyms))
	}
	if err := readJSON(filepath.Join(dir, "equipment.json"), &data.Equipment); err != nil {
		slog.Warn("No equipment file found or error reading it", "error", err)
		data.Equipment = nil
	} else {
		slog.Info("Found equipment items", "count", len(data.Equipment))
	}
	return data
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Generate renders the script for d. now stamps the header.
func Generate(d Dialect, data Data, now time.Time) (string, error) {
	switch d {
	case MySQL:
		return mysqlScript(data, now), nil
	case PostgreSQL:
		return postgresScript(data, now), nil
	case SQLite:
		return sqliteScript(data, now), nil
	case MongoDB:
		return mongoScript(data, now)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, d)
	}
}

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// sqlDateTime is the MySQL DATETIME literal format.
const sqlDateTime = "2006-01-02 15:04:05"

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// nullable quotes s, or returns NULL when it is empty.
func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}

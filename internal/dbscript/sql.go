package dbscript

import (
	"fmt"
	"strings"
	"time"
)

const mysqlSchema = `-- Create database
CREATE DATABASE IF NOT EXISTS gym_equipment_db;
USE gym_equipment_db;

-- Create gyms table
CREATE TABLE IF NOT EXISTS gyms (
    id VARCHAR(36) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    address TEXT NOT NULL,
    notes TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

-- Create equipment table
CREATE TABLE IF NOT EXISTS equipment (
    id VARCHAR(36) PRIMARY KEY,
    gym_id VARCHAR(36) NOT NULL,
    name VARCHAR(255) NOT NULL,
    category VARCHAR(100) NOT NULL,
    brand VARCHAR(100),
    model VARCHAR(100),
    notes TEXT,
    is_available BOOLEAN DEFAULT TRUE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    FOREIGN KEY (gym_id) REFERENCES gyms(id) ON DELETE CASCADE
);
`

const postgresSchema = `-- Create database (run this separately as superuser)
-- CREATE DATABASE gym_equipment_db;

-- Connect to the database first
-- \c gym_equipment_db;

-- Enable UUID extension (if needed)
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

-- Create gyms table
CREATE TABLE IF NOT EXISTS gyms (
    id UUID PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    address TEXT NOT NULL,
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

-- Create equipment table
CREATE TABLE IF NOT EXISTS equipment (
    id UUID PRIMARY KEY,
    gym_id UUID NOT NULL REFERENCES gyms(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL,
    category VARCHAR(100) NOT NULL,
    brand VARCHAR(100),
    model VARCHAR(100),
    notes TEXT,
    is_available BOOLEAN DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
`

// sqlFlavor captures the differences between the SQL scripts.
type sqlFlavor struct {
	name       string
	schema     string
	timeFormat string
	boolTrue   string
	boolFalse  string
}

var (
	mysqlFlavor = sqlFlavor{
		name:       "MySQL",
		schema:     mysqlSchema,
		timeFormat: sqlDateTime,
		boolTrue:   "TRUE",
		boolFalse:  "FALSE",
	}
	postgresFlavor = sqlFlavor{
		name:       "PostgreSQL",
		schema:     postgresSchema,
		timeFormat: isoMillis,
		boolTrue:   "true",
		boolFalse:  "false",
	}
)

func mysqlScript(data Data, now time.Time) string {
	return sqlScript(mysqlFlavor, data, now)
}

func postgresScript(data Data, now time.Time) string {
	return sqlScript(postgresFlavor, data, now)
}

// sqliteScript reuses the MySQL script; SQLite has no databases to create or select.
func sqliteScript(data Data, now time.Time) string {
	script := mysqlScript(data, now)
	script = strings.Replace(script, "CREATE DATABASE IF NOT EXISTS gym_equipment_db;", "-- SQLite database will be created automatically", 1)
	script = strings.Replace(script, "USE gym_equipment_db;", "-- Using SQLite database file", 1)
	return script
}

func sqlScript(f sqlFlavor, data Data, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "-- %s migration script for gym equipment data\n", f.name)
	fmt.Fprintf(&b, "-- Generated on %s\n\n", now.UTC().Format(isoMillis))
	b.WriteString(f.schema)
	b.WriteString("\n-- Clear existing data\nDELETE FROM equipment;\nDELETE FROM gyms;\n\n-- Insert gyms\n")

	ts := func(t time.Time) string { return quote(t.UTC().Format(f.timeFormat)) }

	for _, gym := range data.Gyms {
		fmt.Fprintf(&b, "INSERT INTO gyms (id, name, address, notes, created_at, updated_at) VALUES (\n"+
			"    %s,\n    %s,\n    %s,\n    %s,\n    %s,\n    %s\n);\n",
			quote(gym.ID),
			quote(gym.Name),
			quote(gym.Address),
			nullable(gym.Notes),
			ts(gym.CreatedAt),
			ts(gym.UpdatedAt),
		)
	}

	b.WriteString("\n-- Insert equipment\n")

	for _, item := range data.Equipment {
		available := f.boolFalse
		if item.IsAvailable {
			available = f.boolTrue
		}
		fmt.Fprintf(&b, "INSERT INTO equipment (id, gym_id, name, category, brand, model, notes, is_available, created_at, updated_at) VALUES (\n"+
			"    %s,\n    %s,\n    %s,\n    %s,\n    %s,\n    %s,\n    %s,\n    %s,\n    %s,\n    %s\n);\n",
			quote(item.ID),
			quote(item.GymID),
			quote(item.Name),
			quote(string(item.Category)),
			nullable(item.Brand),
			nullable(item.Model),
			nullable(item.Notes),
			available,
			ts(item.CreatedAt),
			ts(item.UpdatedAt),
		)
	}

	return b.String()
}

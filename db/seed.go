package db

import (
	"database/sql"
	"fmt"
)

// SeedData populates the database with initial data
func SeedData(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	// Seed roles
	roles := []string{"Admin", "Trainer", "Trainee"}
	for _, role := range roles {
		_, err = tx.Exec(`
			INSERT INTO roles (role)
			SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM roles WHERE role = $1)
		`, role)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("error seeding roles: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

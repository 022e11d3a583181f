package models

import (
	"fmt"

	"gorm.io/gorm"
)

// personIndexDDL mirrors idx_customers_person in migrations/000001_create_customers.up.sql
const personIndexDDL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_person
	ON customers (LOWER(first_name), LOWER(last_name), date_of_birth)`

// AutoMigrate creates the customers table from the models, including the
// expression index GORM tags cannot express. Deployed databases use the SQL
// migrations; this serves sqlite and other throwaway schemas.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&CustomerModel{}); err != nil {
		return fmt.Errorf("failed to migrate customers: %w", err)
	}
	if err := db.Exec(personIndexDDL).Error; err != nil {
		return fmt.Errorf("failed to create person index: %w", err)
	}
	return nil
}

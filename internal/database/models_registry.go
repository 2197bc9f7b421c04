package database

import "eduforums/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Account{},
		&models.Community{},
		&models.Feedback{},
		&models.Vote{},
		&models.Comment{},
	}
}

package repository

import "gorm.io/gorm"

// AutoMigrate creates the schema for every repository model. Used by
// cmd/seed and the test suites; production schema is managed the same way
// on startup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&workspaceModel{},
		&workspaceMemberModel{},
		&projectModel{},
		&taskModel{},
		&threadModel{},
		&threadParticipantModel{},
		&messageModel{},
		&notificationModel{},
	)
}

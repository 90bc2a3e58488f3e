package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模块迁移数据表
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "Link":
		return db.AutoMigrate(Link{})

	case "Project":
		return db.AutoMigrate(Project{})

	case "Check":
		return db.AutoMigrate(Check{})

	case "Notification":
		return db.AutoMigrate(Notification{})
	}
	return nil
}

// AutoMigrateAll 迁移全部数据表
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		Link{},
		Project{},
		Check{},
		Notification{},
	)
}

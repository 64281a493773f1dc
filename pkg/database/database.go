package database

import (
	"course_studio_backend/internal/config"
	"course_studio_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate runs the schema migration for every persisted model. Callers opt in
// via the migrate flags; the sqlite-backed tests share it.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.InstructorProfile{},
		&model.Course{},
		&model.CourseModule{},
		&model.Lesson{},
		&model.Assessment{},
		&model.AssessmentQuestion{},
		&model.AnswerOption{},
		&model.Subscription{},
		&model.AuthoringSession{},
	)
}

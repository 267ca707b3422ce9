package database

import (
	"fmt"
	"log"
	"shikkha_backend/internal/config"
	"shikkha_backend/internal/model"

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

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate creates or updates the schema. Shared with the test
// harness, which runs it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Semester{},
		&model.CourseModule{},
		&model.Lesson{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.ExamSession{},
		&model.ExamAttempt{},
		&model.ExamAttemptPointer{},
		&model.AttemptAnswer{},
		&model.RetakeRequest{},
		&model.LessonProgress{},
	)
}

package mysql

import (
	"errors"
	"fmt"
	"time"

	"yatube/internal/model"
	"yatube/internal/pkg"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 打开连接池，migrate 为 true 时自动建表
func InitDB(dsn string, migrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if migrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// AutoMigrate 自动建表（开发阶段 OK）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
		&model.SocialOutbox{},
	)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.ErrNotFound
	}
	return err
}

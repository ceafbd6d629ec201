package db

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.Checkout{},
		&model.Order{},
		&model.Subscriber{},
	}
}

// AdminSeed is the account created on an empty users table.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

var DefaultAdmin = AdminSeed{
	Name:     "Admin User",
	Email:    "admin@example.com",
	Password: "123456",
}

// Migrate runs migrations against the handle opened by Initialize.
func Migrate() error {
	return MigrateWith(DB, DefaultAdmin)
}

func MigrateWith(conn *gorm.DB, admin AdminSeed) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedAdmin(conn, admin); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

func seedAdmin(conn *gorm.DB, admin AdminSeed) error {
	var count int64
	if err := conn.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("Users already present, skipping admin seed", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	user := &model.User{
		Name:         admin.Name,
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := conn.Create(user).Error; err != nil {
		return err
	}

	logger.Warn("Seeded default admin account, change its password", map[string]interface{}{
		"email": admin.Email,
	})
	return nil
}

// internal/app/bootstrap/seed.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/users"
	authsys "github.com/AfrozSheikh/krushivarsa/internal/app/system/auth"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAdmin creates the system admin account when credentials are
// configured and no account exists under that email. Re-running against a
// seeded database is a no-op.
func SeedAdmin(ctx context.Context, db *mongo.Database, cfg Config, logger *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Info("admin seed skipped, no credentials configured")
		return nil
	}

	store := userstore.New(db)
	if _, err := store.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		logger.Info("admin account already exists", zap.String("email", cfg.AdminEmail))
		return nil
	} else if !errors.Is(err, userstore.ErrNotFound) {
		return fmt.Errorf("look up admin account: %w", err)
	}

	hash, err := authsys.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = store.Create(ctx, models.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		UserType:     models.UserTypeFarmer,
		IsApproved:   true,
		Status:       models.StatusApproved,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("create admin account: %w", err)
	}
	logger.Info("admin account seeded", zap.String("email", cfg.AdminEmail))
	return nil
}

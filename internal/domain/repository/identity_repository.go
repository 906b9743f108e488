package repository

import (
	"context"

	"alartmed/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IdentityRepository interface {
	Create(ctx context.Context, db *gorm.DB, identity *entity.Identity) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.Identity, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Identity, error)
	UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, passwordHash string) error
}

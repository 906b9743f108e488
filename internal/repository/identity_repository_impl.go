package repository

import (
	"context"
	"errors"
	"strings"

	"alartmed/internal/domain/entity"
	domainRepo "alartmed/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type identityRepository struct{}

func NewIdentityRepository() domainRepo.IdentityRepository {
	return &identityRepository{}
}

func (r *identityRepository) Create(ctx context.Context, db *gorm.DB, identity *entity.Identity) error {
	identity.Email = normalizeEmail(identity.Email)
	return db.WithContext(ctx).Create(identity).Error
}

func (r *identityRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.Identity, error) {
	var identity entity.Identity
	err := db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Identity, error) {
	var identity entity.Identity
	err := db.WithContext(ctx).Where("id = ?", id).First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, passwordHash string) error {
	result := db.WithContext(ctx).Model(&entity.Identity{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

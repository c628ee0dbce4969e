package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmarochkin/keebshop/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

func (r *GormRepo) AddRefreshToken(ctx context.Context, jti string, userID uuid.UUID, exp time.Time) error {
	return r.DB.WithContext(ctx).Create(&models.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: exp,
	}).Error
}

func (r *GormRepo) RefreshTokenUsable(ctx context.Context, jti string) (bool, error) {
	var token models.RefreshToken
	err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error
	if err != nil {
		return false, err
	}
	if token.Revoked || time.Now().After(token.ExpiresAt) {
		return false, nil
	}
	return true, nil
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, jti string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("jti = ?", jti).Update("revoked", true).Error
}

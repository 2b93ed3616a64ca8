package repository

import (
	"billing-checkout/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserMetaRepository interface {
	Get(ctx context.Context, userID, key string) (string, error)
	// AddUnique stores value unless the user already has one under key, and
	// returns whichever value is stored afterwards.
	AddUnique(ctx context.Context, userID, key, value string) (string, error)
}

type userMetaRepoImpl struct {
	db *gorm.DB
}

func NewUserMetaRepository(db *gorm.DB) UserMetaRepository {
	return &userMetaRepoImpl{
		db: db,
	}
}

func (r *userMetaRepoImpl) Get(ctx context.Context, userID, key string) (string, error) {
	var meta model.UserMeta
	err := r.db.WithContext(ctx).
		Where(&model.UserMeta{UserID: userID, Key: key}).
		First(&meta).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	return meta.Value, nil
}

func (r *userMetaRepoImpl) AddUnique(ctx context.Context, userID, key, value string) (string, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model.UserMeta{
		UserID: userID,
		Key:    key,
		Value:  value,
	}).Error
	if err != nil {
		return "", err
	}

	return r.Get(ctx, userID, key)
}

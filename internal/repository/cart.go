package repository

import (
	"billing-checkout/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	Upsert(ctx context.Context, item *model.CartItem) error
	Get(ctx context.Context, userID string) ([]*model.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

// Upsert adds item.Quantity to the quantity already in the cart.
func (r *cartRepoImpl) Upsert(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
}

func (r *cartRepoImpl) Get(ctx context.Context, userID string) ([]*model.CartItem, error) {
	var items []*model.CartItem

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
